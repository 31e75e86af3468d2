package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"voxnav/internal/form"
	"voxnav/internal/intent"
)

// simProduct is one catalog entry on the simulated products screen.
type simProduct struct {
	Name     string
	Category string
	Price    float64
}

// simProducts implements dispatch.ListCommands over an in-memory product
// list, standing in for the rendered products screen.
type simProducts struct {
	mu       sync.Mutex
	all      []simProduct
	category string
	search   string
	sort     string
}

func newSimProducts() *simProducts {
	return &simProducts{
		all: []simProduct{
			{Name: "Voice Starter", Category: "Basic", Price: 19},
			{Name: "Voice Assistant Pro", Category: "Pro", Price: 49},
			{Name: "Navigator Suite", Category: "Pro", Price: 79},
			{Name: "Enterprise Voice Hub", Category: "Enterprise", Price: 199},
			{Name: "Enterprise Command Center", Category: "Enterprise", Price: 499},
		},
	}
}

func (p *simProducts) Apply(op intent.ListOp, field, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch op {
	case intent.ListFilter:
		p.category = value
	case intent.ListSort:
		if value != "low-to-high" && value != "high-to-low" {
			return fmt.Errorf("unknown sort order %q", value)
		}
		p.sort = value
	case intent.ListSearch:
		p.search = value
	case intent.ListClear:
		p.category = ""
		p.search = ""
		p.sort = ""
	default:
		return fmt.Errorf("unknown list operation %q", op)
	}
	return nil
}

func (p *simProducts) Snapshot() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return map[string]string{
		"category": p.category,
		"search":   p.search,
		"sort":     p.sort,
		"visible":  strings.Join(p.visibleLocked(), ", "),
	}
}

func (p *simProducts) visibleLocked() []string {
	items := make([]simProduct, 0, len(p.all))
	for _, item := range p.all {
		if p.category != "" && !strings.EqualFold(item.Category, p.category) {
			continue
		}
		if p.search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(p.search)) {
			continue
		}
		items = append(items, item)
	}

	switch p.sort {
	case "low-to-high":
		sort.Slice(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case "high-to-low":
		sort.Slice(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

// simContactForm implements dispatch.FormCommands over an in-memory form,
// standing in for the rendered contact screen.
type simContactForm struct {
	mu        sync.Mutex
	fields    map[string]string
	submitted bool
}

func newSimContactForm() *simContactForm {
	return &simContactForm{fields: make(map[string]string)}
}

func (f *simContactForm) FillField(name, value string) bool {
	if !form.KnownField(name) {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[name] = value
	return true
}

func (f *simContactForm) SelectSubject(text string) bool {
	subject, ok := form.NormalizeSubject(text)
	if !ok {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields["subject"] = string(subject)
	return true
}

func (f *simContactForm) FillMany(entries []intent.FieldEntry) int {
	applied := 0
	for _, e := range entries {
		if e.Field == "subject" {
			if f.SelectSubject(e.Value) {
				applied++
			}
			continue
		}
		if f.FillField(e.Field, e.Value) {
			applied++
		}
	}
	return applied
}

func (f *simContactForm) Submit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = true
	return nil
}

func (f *simContactForm) Snapshot() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := make(map[string]string, len(f.fields)+1)
	for k, v := range f.fields {
		snap[k] = v
	}
	if f.submitted {
		snap["status"] = "submitted"
	}
	return snap
}
