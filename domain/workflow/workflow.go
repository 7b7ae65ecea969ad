// Package workflow defines the guided-workflow products and pure stage logic.
package workflow

import "errors"

var (
	ErrUnknownProduct = errors.New("workflow: unknown product")
	ErrUnknownStage   = errors.New("workflow: unknown stage")
	ErrFinalStage     = errors.New("workflow: already at final stage")
)

// Stage is one step of a guided workflow (value type).
type Stage struct {
	Slug        string
	Title       string
	Description string
	PromptHint  string
}

// Product is a guided-workflow product with an ordered stage list.
type Product struct {
	ID     string
	Name   string
	Tag    string
	Stages []Stage
}

// Products returns the product catalog. Static, defined in source.
func Products() []Product {
	return []Product{
		{
			ID:   "foundry",
			Name: "FoundryOS",
			Tag:  "Validate and build your idea",
			Stages: []Stage{
				{Slug: "spark", Title: "Spark", Description: "Capture the raw idea", PromptHint: "What problem are you solving, and for whom?"},
				{Slug: "validate", Title: "Validate", Description: "Test demand before building", PromptHint: "What is the cheapest experiment that could kill this idea?"},
				{Slug: "shape", Title: "Shape", Description: "Define the smallest useful product", PromptHint: "What can you cut and still deliver the core promise?"},
				{Slug: "build", Title: "Build", Description: "Ship the MVP", PromptHint: "What is blocking your next release?"},
			},
		},
		{
			ID:   "launch",
			Name: "LaunchOS",
			Tag:  "Go to market with confidence",
			Stages: []Stage{
				{Slug: "position", Title: "Position", Description: "Name the audience and the pain", PromptHint: "Who feels this pain most acutely?"},
				{Slug: "message", Title: "Message", Description: "Write copy that lands", PromptHint: "How would your best customer describe you to a friend?"},
				{Slug: "channels", Title: "Channels", Description: "Pick where to show up", PromptHint: "Where does your audience already gather?"},
				{Slug: "liftoff", Title: "Liftoff", Description: "Launch week, sequenced", PromptHint: "What does day one look like, hour by hour?"},
			},
		},
	}
}

// Find returns a product by ID.
// This is a PURE function.
func Find(id string) (Product, bool) {
	for _, p := range Products() {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FirstStage returns the opening stage slug for a product.
func FirstStage(productID string) (string, error) {
	p, ok := Find(productID)
	if !ok || len(p.Stages) == 0 {
		return "", ErrUnknownProduct
	}
	return p.Stages[0].Slug, nil
}

// StageIndex returns the position of a stage within a product, or -1.
// This is a PURE function.
func StageIndex(p Product, slug string) int {
	for i, s := range p.Stages {
		if s.Slug == slug {
			return i
		}
	}
	return -1
}

// Advance returns the stage after current. ErrFinalStage when current is the
// last stage.
func Advance(productID, current string) (string, error) {
	p, ok := Find(productID)
	if !ok {
		return "", ErrUnknownProduct
	}
	i := StageIndex(p, current)
	if i < 0 {
		return "", ErrUnknownStage
	}
	if i == len(p.Stages)-1 {
		return "", ErrFinalStage
	}
	return p.Stages[i+1].Slug, nil
}

// ValidStage reports whether slug names a stage of the product.
func ValidStage(productID, slug string) bool {
	p, ok := Find(productID)
	if !ok {
		return false
	}
	return StageIndex(p, slug) >= 0
}
