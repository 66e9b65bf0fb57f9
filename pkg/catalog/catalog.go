// Package catalog holds the static micro-task table keyed by goal area and
// time budget.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// TaskDescriptor is a single pre-authored micro-task.
type TaskDescriptor struct {
	TaskID   string `yaml:"task_id" json:"task_id"`
	CoreText string `yaml:"core" json:"core_text"`
}

// Key identifies one bucket of the catalog.
type Key struct {
	GoalType   string
	TimeBudget string
}

type bucketDoc struct {
	GoalType   string           `yaml:"goal_type"`
	TimeBudget string           `yaml:"time_budget"`
	Tasks      []TaskDescriptor `yaml:"tasks"`
}

type catalogDoc struct {
	GoalTypes   []string    `yaml:"goal_types"`
	TimeBudgets []string    `yaml:"time_budgets"`
	Buckets     []bucketDoc `yaml:"buckets"`
}

// Catalog is immutable after construction and safe for concurrent reads.
type Catalog struct {
	goalTypes   []string
	timeBudgets []string
	buckets     map[Key][]TaskDescriptor
}

// Default returns the catalog shipped with the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse builds a catalog from its YAML form. Task IDs must be unique within
// a bucket and a bucket may appear only once.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		goalTypes:   doc.GoalTypes,
		timeBudgets: doc.TimeBudgets,
		buckets:     make(map[Key][]TaskDescriptor, len(doc.Buckets)),
	}
	for _, b := range doc.Buckets {
		key := Key{GoalType: b.GoalType, TimeBudget: b.TimeBudget}
		if _, dup := c.buckets[key]; dup {
			return nil, fmt.Errorf("duplicate catalog bucket (%s, %s)", b.GoalType, b.TimeBudget)
		}
		seen := make(map[string]bool, len(b.Tasks))
		for _, t := range b.Tasks {
			if t.TaskID == "" {
				return nil, fmt.Errorf("bucket (%s, %s) has a task without task_id", b.GoalType, b.TimeBudget)
			}
			if seen[t.TaskID] {
				return nil, fmt.Errorf("bucket (%s, %s) repeats task_id %s", b.GoalType, b.TimeBudget, t.TaskID)
			}
			seen[t.TaskID] = true
		}
		c.buckets[key] = b.Tasks
	}
	return c, nil
}

// Lookup returns the bucket's tasks in authored order. Unknown keys yield an
// empty slice. The result is a copy; callers may modify it.
func (c *Catalog) Lookup(goalType, timeBudget string) []TaskDescriptor {
	tasks := c.buckets[Key{GoalType: goalType, TimeBudget: timeBudget}]
	out := make([]TaskDescriptor, len(tasks))
	copy(out, tasks)
	return out
}

// Find returns the task with taskID from the given bucket.
func (c *Catalog) Find(goalType, timeBudget, taskID string) (TaskDescriptor, bool) {
	for _, t := range c.buckets[Key{GoalType: goalType, TimeBudget: timeBudget}] {
		if t.TaskID == taskID {
			return t, true
		}
	}
	return TaskDescriptor{}, false
}

func (c *Catalog) GoalTypes() []string {
	return append([]string(nil), c.goalTypes...)
}

func (c *Catalog) TimeBudgets() []string {
	return append([]string(nil), c.timeBudgets...)
}
