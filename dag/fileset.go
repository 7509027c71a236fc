package dag

import "github.com/emirpasic/gods/sets/linkedhashset"

// FileSet is a set of file identifiers that remembers insertion order.
type FileSet struct {
	set *linkedhashset.Set
}

// NewFileSet builds a set from files, dropping duplicates.
func NewFileSet(files ...string) *FileSet {
	s := &FileSet{set: linkedhashset.New()}
	s.Add(files...)
	return s
}

// Add inserts files not already present.
func (s *FileSet) Add(files ...string) {
	for _, f := range files {
		s.set.Add(f)
	}
}

// Contains reports whether f is in the set.
func (s *FileSet) Contains(f string) bool {
	return s.set.Contains(f)
}

// Len returns the number of files.
func (s *FileSet) Len() int {
	if s == nil {
		return 0
	}
	return s.set.Size()
}

// Values returns the files in insertion order.
func (s *FileSet) Values() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, s.set.Size())
	for _, v := range s.set.Values() {
		out = append(out, v.(string))
	}
	return out
}
