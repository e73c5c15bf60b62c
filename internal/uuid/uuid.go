// Package uuid hands out record identifiers behind an interface so tests can pin them
package uuid

//go:generate mockgen -destination=mock/mock_generator.go -package=mockuuid -source=uuid.go

import (
	"github.com/google/uuid"
)

// Generator is an interface for generating record IDs
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements the Generator interface using Google's UUID package
type GoogleUUIDGenerator struct{}

// New generates a new random UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// NamespaceGenerator derives IDs from a namespace and a name so the same
// input always yields the same ID
type NamespaceGenerator struct {
	namespace uuid.UUID
}

// NewNamespaceGenerator creates a generator scoped to the given namespace name
func NewNamespaceGenerator(namespace string) *NamespaceGenerator {
	return &NamespaceGenerator{namespace: uuid.NewSHA1(uuid.NameSpaceURL, []byte(namespace))}
}

// Derive returns the version 5 UUID of name inside the namespace
func (g *NamespaceGenerator) Derive(name string) string {
	return uuid.NewSHA1(g.namespace, []byte(name)).String()
}
