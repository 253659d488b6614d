package models

import "time"

// Package represents one tracked replication package.
type Package struct {
	ID           string
	Name         string // repository name, also the manuscript id
	Path         string // local checkout path
	ZenodoRecord string // archive record id, "" until first download
	Accepted     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RenderKind distinguishes the two correspondence types.
type RenderKind string

const (
	RenderKindResponse RenderKind = "response"
	RenderKindAccept   RenderKind = "accept"
)

// Render records one successfully rendered piece of correspondence.
// Failed renders are never recorded: rendering is all-or-nothing.
type Render struct {
	ID         string
	PackageID  string
	Round      int
	Kind       RenderKind
	TemplateID string
	Output     string
	CreatedAt  time.Time
}
