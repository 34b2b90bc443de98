package session

import (
	"time"

	"github.com/nvaih/taskdeck/internal/model"
)

type demoSample struct {
	title       string
	daysFromNow int
	description string
}

// Demo tasks with due dates spread over the coming days. Offsets are
// relative to the day SeedDemo runs.
var demoSamples = []demoSample{
	{"Review calculus notes", 1, "Chapter 3: integrals"},
	{"Prepare intro-to-AI presentation", 3, "Slides plus a small demo"},
	{"Web programming homework", 0, "Hooks and form handling"},
	{"Register for next term's courses", 7, ""},
	{"Discrete math report", 5, "Graphs and trees"},
	{"English speaking practice", 2, "30 minutes of shadowing"},
	{"Gym session", 0, "Full body, 45 minutes"},
	{"Write scholarship CV", 10, ""},
	{"Study for probability exam", 6, ""},
	{"Clean the room", 1, ""},
	{"Project group meeting", 4, "Settle this week's scope"},
	{"Read software engineering chapter 5", 8, ""},
}

// SeedDemo populates the collection with the sample tasks, each created
// through the store like a regular add. Intended for an empty
// collection; calling it twice duplicates the samples.
func (s *Session) SeedDemo() ([]model.Task, error) {
	now := time.Now()

	created := make([]model.Task, 0, len(demoSamples))
	for _, sample := range demoSamples {
		due := now.AddDate(0, 0, sample.daysFromNow).Format(model.DateLayout)
		t, err := s.AddTask(sample.title, &due, sample.description)
		if err != nil {
			return created, err
		}
		created = append(created, *t)
	}
	return created, nil
}
