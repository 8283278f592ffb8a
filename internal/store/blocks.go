package store

import (
	"fmt"
	"sort"

	"github.com/draftsmith/draftsmith/internal/entity"
	"github.com/google/uuid"
)

// AddBlock registers a named block definition. Member geometry is
// stored relative to the base point by the caller.
func (s *Store) AddBlock(b entity.BlockDef) error {
	if b.Name == "" {
		return fmt.Errorf("%w: block name must not be empty", ErrBlockNotFound)
	}
	if _, ok := s.blocks[b.Name]; ok {
		return fmt.Errorf("%w: %q", ErrBlockExists, b.Name)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.blocks[b.Name] = b.Clone()
	s.logger.Debug("added block %q with %d entities", b.Name, len(b.Entities))
	return nil
}

// Block returns a deep copy of the named block definition.
func (s *Store) Block(name string) (entity.BlockDef, bool) {
	b, ok := s.blocks[name]
	if !ok {
		return entity.BlockDef{}, false
	}
	return b.Clone(), true
}

// BlockNames returns the defined block names, sorted.
func (s *Store) BlockNames() []string {
	names := make([]string, 0, len(s.blocks))
	for name := range s.blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeleteBlock removes a block definition. References to it become
// dangling; callers explode or erase them first.
func (s *Store) DeleteBlock(name string) error {
	if _, ok := s.blocks[name]; !ok {
		return fmt.Errorf("%w: %q", ErrBlockNotFound, name)
	}
	delete(s.blocks, name)
	return nil
}
