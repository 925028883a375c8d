package planner

import "slices"

func (s *TaskStore) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories)
}

// mutateCategories is mutate for operations that return the category list.
func (s *TaskStore) mutateCategories(fn func() bool) []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn() {
		s.persistLocked()
	}
	return slices.Clone(s.categories)
}

// AddCategory appends a category, generating an id when empty. A category
// whose id is already present is ignored.
func (s *TaskStore) AddCategory(c Category) []Category {
	return s.mutateCategories(func() bool {
		if c.ID == "" {
			c.ID = s.newID()
		}
		if slices.ContainsFunc(s.categories, func(e Category) bool { return e.ID == c.ID }) {
			return false
		}
		s.categories = append(s.categories, c)
		return true
	})
}

// UpdateCategory renames a category. Tasks filed under it pick up the new name.
func (s *TaskStore) UpdateCategory(id, name string) []Category {
	return s.mutateCategories(func() bool {
		i := slices.IndexFunc(s.categories, func(e Category) bool { return e.ID == id })
		if i < 0 {
			return false
		}
		s.categories[i].Name = name
		for _, t := range s.tasks {
			if t.Category.ID == id {
				t.Category.Name = name
			}
		}
		return true
	})
}

// DeleteCategory removes a category from the list. Tasks keep their copy of it.
func (s *TaskStore) DeleteCategory(id string) []Category {
	return s.mutateCategories(func() bool {
		before := len(s.categories)
		s.categories = slices.DeleteFunc(s.categories, func(e Category) bool { return e.ID == id })
		return len(s.categories) != before
	})
}
