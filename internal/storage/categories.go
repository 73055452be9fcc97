package storage

import (
	"fmt"
	"strings"
)

// Defaults applied to categories created through AddCategory; the user
// renames them afterwards through the editor.
const (
	newCategoryLabel = "New category"
	newCategoryEmoji = "💼"
)

// LoadCategories reads the category registry from disk. Records without ids
// are dropped; an empty registry is reset to the default seed so the
// never-empty invariant holds even against hand-edited files.
func (s *Storage) LoadCategories() (*CategoryStore, error) {
	store := CategoryStore{Categories: DefaultCategories()}
	err := s.loadJSONWithRecovery(CategoriesFile, &store)
	store.normalize()
	return &store, err
}

// SaveCategories writes the category registry to disk
func (s *Storage) SaveCategories(store *CategoryStore) error {
	return s.writeJSONAtomic(CategoriesFile, store)
}

func (cs *CategoryStore) normalize() {
	kept := cs.Categories[:0]
	for _, c := range cs.Categories {
		if strings.TrimSpace(c.ID) == "" {
			continue
		}
		kept = append(kept, c)
	}
	cs.Categories = kept
	if len(cs.Categories) == 0 {
		cs.Categories = DefaultCategories()
	}
}

// Find returns the category with the given id, or false.
func (cs *CategoryStore) Find(id string) (Category, bool) {
	for _, c := range cs.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Index returns the position of the category in display order, or -1.
// The position selects the palette entry.
func (cs *CategoryStore) Index(id string) int {
	for i, c := range cs.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddCategory appends a category with a fresh id and default label and emoji.
func (s *Storage) AddCategory() (*Category, error) {
	store, err := s.LoadCategories()
	if err != nil {
		return nil, err
	}

	id, err := s.newID("cat")
	if err != nil {
		return nil, err
	}

	cat := Category{ID: id, Label: newCategoryLabel, Emoji: newCategoryEmoji}
	store.Categories = append(store.Categories, cat)

	if err := s.SaveCategories(store); err != nil {
		return nil, err
	}
	return &cat, nil
}

// EditCategory updates a category's label and emoji. The id is immutable.
func (s *Storage) EditCategory(id, label, emoji string) error {
	label = strings.TrimSpace(label)
	emoji = strings.TrimSpace(emoji)

	if label == "" {
		return fmt.Errorf("category label is required")
	}
	if len(label) > maxCategoryLabel {
		return fmt.Errorf("category label too long (max %d)", maxCategoryLabel)
	}
	if len(emoji) > maxCategoryEmoji {
		return fmt.Errorf("category emoji too long (max %d)", maxCategoryEmoji)
	}

	store, err := s.LoadCategories()
	if err != nil {
		return err
	}

	for i := range store.Categories {
		if store.Categories[i].ID == id {
			store.Categories[i].Label = label
			store.Categories[i].Emoji = emoji
			return s.SaveCategories(store)
		}
	}

	return fmt.Errorf("category not found: %s", id)
}

// DeleteCategory removes a category and cascades deletion to every project
// referencing it. Deleting the last remaining category is refused.
func (s *Storage) DeleteCategory(id string) error {
	store, err := s.LoadCategories()
	if err != nil {
		return err
	}

	if len(store.Categories) <= 1 {
		return fmt.Errorf("cannot delete the last category")
	}

	found := false
	for i := range store.Categories {
		if store.Categories[i].ID == id {
			store.Categories = append(store.Categories[:i], store.Categories[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("category not found: %s", id)
	}

	if err := s.SaveCategories(store); err != nil {
		return err
	}

	return s.DeleteProjectsByCategory(id)
}
