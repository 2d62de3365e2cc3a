package domain

import "context"

// ProjectStatus tracks whether a rollout site is still being worked.
type ProjectStatus string

const (
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// Project is a construction/rollout site that expenses are logged against.
type Project struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status ProjectStatus `json:"status"`
}

// FallbackProjectName labels expenses whose project reference dangles.
const FallbackProjectName = "General"

// LookupProject resolves a project id against the given collection,
// returning a placeholder on a miss.
func LookupProject(projects []*Project, id string) *Project {
	for _, p := range projects {
		if p.ID == id {
			return p
		}
	}
	return &Project{ID: id, Name: FallbackProjectName, Status: ProjectStatusInProgress}
}

// ProjectRepository is the store contract for the projects table.
type ProjectRepository interface {
	GetAll(ctx context.Context) ([]*Project, error)
	Insert(ctx context.Context, name string, status ProjectStatus) (*Project, error)
	UpdateStatus(ctx context.Context, id string, status ProjectStatus) (*Project, error)
	Delete(ctx context.Context, id string) error
}
