// Package source provides the configuration sources merged by the loader.
package source

import "gatehouse/internal/config/schema"

// Source writes its values into cfg. Sources run in ascending priority so
// later sources override earlier ones; a source sets only what it finds.
type Source interface {
	Name() string
	Priority() int
	LoadInto(cfg *schema.Root) error
}

const (
	PriorityDefaults = 1
	PriorityYAML     = 2
	PriorityDotEnv   = 3
	PriorityEnv      = 4
	PriorityCLI      = 5
)

// ByPriority sorts sources lowest priority first.
type ByPriority []Source

func (a ByPriority) Len() int           { return len(a) }
func (a ByPriority) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByPriority) Less(i, j int) bool { return a[i].Priority() < a[j].Priority() }
