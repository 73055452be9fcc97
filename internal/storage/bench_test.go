package storage

import (
	"fmt"
	"testing"
)

// createBenchStorage creates a storage instance for benchmarks
func createBenchStorage(b *testing.B) *Storage {
	b.Helper()
	store, err := New(b.TempDir())
	if err != nil {
		b.Fatalf("failed to create bench storage: %v", err)
	}
	return store
}

// BenchmarkAddTask measures task creation performance
func BenchmarkAddTask(b *testing.B) {
	store := createBenchStorage(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := store.AddTask(day, "cat1", fmt.Sprintf("Task %d", i), "09:00", "")
		if err != nil {
			b.Fatalf("AddTask failed: %v", err)
		}
	}
}

// BenchmarkLoadTasks measures loading performance with varying day counts
func BenchmarkLoadTasks(b *testing.B) {
	sizes := []int{10, 100, 365}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("days_%d", size), func(b *testing.B) {
			store := createBenchStorage(b)

			taskStore := &TaskStore{Days: map[string]DayBucket{}}
			for i := 0; i < size; i++ {
				key := fmt.Sprintf("2025-%02d-%02d", i%12+1, i%28+1)
				bucket := taskStore.bucketFor(key)
				for j := 0; j < 5; j++ {
					bucket["cat1"] = append(bucket["cat1"], Task{
						ID:   fmt.Sprintf("t_%d_%d", i, j),
						Text: fmt.Sprintf("Task %d/%d", i, j),
						Time: fmt.Sprintf("%02d:00", 9+j),
					})
				}
			}
			if err := store.SaveTasks(taskStore); err != nil {
				b.Fatalf("SaveTasks failed: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := store.LoadTasks()
				if err != nil {
					b.Fatalf("LoadTasks failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkToggleTask measures toggle performance on a populated bucket
func BenchmarkToggleTask(b *testing.B) {
	store := createBenchStorage(b)

	ids := make([]string, 50)
	for i := range ids {
		task, err := store.AddTask(day, "cat1", fmt.Sprintf("Task %d", i), "09:00", "")
		if err != nil {
			b.Fatalf("AddTask failed: %v", err)
		}
		ids[i] = task.ID
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.ToggleTask(day, "cat1", ids[i%len(ids)]); err != nil {
			b.Fatalf("ToggleTask failed: %v", err)
		}
	}
}

// BenchmarkCopyFromPreviousDay measures day-copy performance
func BenchmarkCopyFromPreviousDay(b *testing.B) {
	store := createBenchStorage(b)

	for i := 0; i < 20; i++ {
		cat := fmt.Sprintf("cat%d", i%3+1)
		if _, err := store.AddTask("2025-03-13", cat, fmt.Sprintf("Task %d", i), "09:00", ""); err != nil {
			b.Fatalf("AddTask failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.CopyFromPreviousDay(day); err != nil {
			b.Fatalf("CopyFromPreviousDay failed: %v", err)
		}
	}
}

// BenchmarkSetProjectProgress measures progress update performance
func BenchmarkSetProjectProgress(b *testing.B) {
	store := createBenchStorage(b)

	project, err := store.AddProject("Bench", "cat1", 1, 12, "")
	if err != nil {
		b.Fatalf("AddProject failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.SetProjectProgress(project.ID, i%120); err != nil {
			b.Fatalf("SetProjectProgress failed: %v", err)
		}
	}
}

// BenchmarkConcurrentReads measures read performance under concurrent access
func BenchmarkConcurrentReads(b *testing.B) {
	store := createBenchStorage(b)

	for i := 0; i < 100; i++ {
		if _, err := store.AddTask(day, "cat1", fmt.Sprintf("Task %d", i), "09:00", ""); err != nil {
			b.Fatalf("AddTask failed: %v", err)
		}
	}
	if _, err := store.AddProject("Bench", "cat1", 1, 6, ""); err != nil {
		b.Fatalf("AddProject failed: %v", err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = store.LoadTasks()
			_, _ = store.LoadCategories()
			_, _ = store.LoadProjects()
		}
	})
}
