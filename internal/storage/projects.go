package storage

import (
	"fmt"
	"strings"
)

// LoadProjects reads the project list from disk. Records without ids are
// dropped and progress values are re-clamped, so hand-edited files cannot
// break the [0,100] invariant.
func (s *Storage) LoadProjects() (*ProjectStore, error) {
	store := ProjectStore{Projects: []Project{}}
	err := s.loadJSONWithRecovery(ProjectsFile, &store)
	store.normalize()
	return &store, err
}

// SaveProjects writes the project list to disk
func (s *Storage) SaveProjects(store *ProjectStore) error {
	return s.writeJSONAtomic(ProjectsFile, store)
}

func (ps *ProjectStore) normalize() {
	kept := ps.Projects[:0]
	for _, p := range ps.Projects {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		p.Progress = clampProgress(p.Progress)
		kept = append(kept, p)
	}
	ps.Projects = kept
}

// ByCategory returns the projects referencing the given category, in order.
func (ps *ProjectStore) ByCategory(catID string) []Project {
	var out []Project
	for _, p := range ps.Projects {
		if p.CategoryID == catID {
			out = append(out, p)
		}
	}
	return out
}

func validateProjectInput(name string, startMonth, endMonth int) error {
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if len(name) > maxProjectNameLen {
		return fmt.Errorf("project name too long (max %d)", maxProjectNameLen)
	}
	if startMonth < 1 || startMonth > 12 {
		return fmt.Errorf("start month out of range: %d", startMonth)
	}
	if endMonth < 1 || endMonth > 12 {
		return fmt.Errorf("end month out of range: %d", endMonth)
	}
	// startMonth <= endMonth is the caller's responsibility; an inverted
	// range is stored as-is and renders as an empty span.
	return nil
}

// AddProject appends a project with progress 0.
func (s *Storage) AddProject(name, catID string, startMonth, endMonth int, note string) (*Project, error) {
	name = strings.TrimSpace(name)
	note = strings.TrimSpace(note)

	if err := validateProjectInput(name, startMonth, endMonth); err != nil {
		return nil, err
	}
	if strings.TrimSpace(catID) == "" {
		return nil, fmt.Errorf("category id is required")
	}
	if len(note) > maxNoteLen {
		return nil, fmt.Errorf("note too long (max %d)", maxNoteLen)
	}

	store, err := s.LoadProjects()
	if err != nil {
		return nil, err
	}

	id, err := s.newID("p")
	if err != nil {
		return nil, err
	}

	project := Project{
		ID:         id,
		Name:       name,
		CategoryID: catID,
		StartMonth: startMonth,
		EndMonth:   endMonth,
		Progress:   0,
		Note:       note,
	}

	store.Projects = append(store.Projects, project)

	if err := s.SaveProjects(store); err != nil {
		return nil, err
	}
	return &project, nil
}

// EditProject updates a project's name, category, and month range.
func (s *Storage) EditProject(id, name, catID string, startMonth, endMonth int) error {
	name = strings.TrimSpace(name)

	if err := validateProjectInput(name, startMonth, endMonth); err != nil {
		return err
	}
	if strings.TrimSpace(catID) == "" {
		return fmt.Errorf("category id is required")
	}

	store, err := s.LoadProjects()
	if err != nil {
		return err
	}

	for i := range store.Projects {
		if store.Projects[i].ID == id {
			store.Projects[i].Name = name
			store.Projects[i].CategoryID = catID
			store.Projects[i].StartMonth = startMonth
			store.Projects[i].EndMonth = endMonth
			return s.SaveProjects(store)
		}
	}

	return fmt.Errorf("project not found: %s", id)
}

// SetProjectProgress sets a project's progress, silently clamping the value
// to [0,100].
func (s *Storage) SetProjectProgress(id string, v int) error {
	store, err := s.LoadProjects()
	if err != nil {
		return err
	}

	for i := range store.Projects {
		if store.Projects[i].ID == id {
			store.Projects[i].Progress = clampProgress(v)
			return s.SaveProjects(store)
		}
	}

	return fmt.Errorf("project not found: %s", id)
}

// SetProjectNote replaces a project's note
func (s *Storage) SetProjectNote(id, note string) error {
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLen {
		return fmt.Errorf("note too long (max %d)", maxNoteLen)
	}

	store, err := s.LoadProjects()
	if err != nil {
		return err
	}

	for i := range store.Projects {
		if store.Projects[i].ID == id {
			store.Projects[i].Note = note
			return s.SaveProjects(store)
		}
	}

	return fmt.Errorf("project not found: %s", id)
}

// DeleteProject removes a project
func (s *Storage) DeleteProject(id string) error {
	store, err := s.LoadProjects()
	if err != nil {
		return err
	}

	for i := range store.Projects {
		if store.Projects[i].ID == id {
			store.Projects = append(store.Projects[:i], store.Projects[i+1:]...)
			return s.SaveProjects(store)
		}
	}

	return fmt.Errorf("project not found: %s", id)
}

// DeleteProjectsByCategory removes every project referencing the category.
// Used by the category-deletion cascade; removing zero projects is fine.
func (s *Storage) DeleteProjectsByCategory(catID string) error {
	store, err := s.LoadProjects()
	if err != nil {
		return err
	}

	kept := store.Projects[:0]
	for _, p := range store.Projects {
		if p.CategoryID != catID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(store.Projects) {
		return nil
	}
	store.Projects = kept
	return s.SaveProjects(store)
}
