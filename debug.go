package spool

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

type GraphInfo struct {
	Services []ServiceInfo
	Missing  []string
	Cycles   [][]string
}

type ServiceInfo struct {
	Service        string
	Implementation string
	Lifetime       Lifetime
	Strategy       string
	Dependencies   []string
	Dependents     []string
	Cached         bool
}

// Graph describes every registration, one entry per descriptor in
// registration order. Missing lists required dependencies only.
func (p *Provider) Graph() GraphInfo {
	descriptors := p.services.Descriptors()
	g := p.dependencyGraph(descriptors, false)

	services := make([]ServiceInfo, 0, len(descriptors))
	for _, d := range descriptors {
		key := ireflect.Name(d.serviceType)
		_, cached := d.Implementation()

		impl := ""
		if t := d.EffectiveImplementationType(); t != nil {
			impl = ireflect.Name(t)
		}

		services = append(
			services, ServiceInfo{
				Service:        key,
				Implementation: impl,
				Lifetime:       d.lifetime,
				Strategy:       d.strategy(),
				Dependencies:   typeNames(g.Dependencies(d.serviceType)),
				Dependents:     typeNames(g.Dependents(d.serviceType)),
				Cached:         cached,
			},
		)
	}

	var cycles [][]string
	for _, cycle := range g.Cycles() {
		cycles = append(cycles, typeNames(cycle))
	}

	return GraphInfo{
		Services: services,
		Missing:  typeNames(p.dependencyGraph(descriptors, true).Missing()),
		Cycles:   cycles,
	}
}

func (p *Provider) PrintGraph() {
	p.FprintGraph(os.Stdout)
}

func (p *Provider) FprintGraph(w io.Writer) {
	info := p.Graph()

	if len(info.Services) == 0 {
		_, _ = fmt.Fprintln(w, "(empty collection)")
		return
	}

	for _, svc := range info.Services {
		status := "○"
		if svc.Cached {
			status = "●"
		}

		if len(svc.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s [%s]\n", status, svc.Service, svc.Lifetime)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s [%s] ← %s\n", status, svc.Service, svc.Lifetime, strings.Join(svc.Dependencies, ", "))
		}
	}

	for _, missing := range info.Missing {
		_, _ = fmt.Fprintf(w, "✗ %s (not registered)\n", missing)
	}
}

func (p *Provider) SprintGraph() string {
	var sb strings.Builder
	p.FprintGraph(&sb)
	return sb.String()
}

func (p *Provider) FprintGraphDOT(w io.Writer) {
	info := p.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	seen := make(map[string]bool)
	for _, svc := range info.Services {
		if seen[svc.Service] {
			continue
		}
		seen[svc.Service] = true

		style := ""
		if svc.Cached {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", svc.Service, escapeLabel(svc.Service), style)
	}

	_, _ = fmt.Fprintln(w)

	edges := make(map[string]bool)
	for _, svc := range info.Services {
		for _, dep := range svc.Dependencies {
			edge := svc.Service + "->" + dep
			if edges[edge] {
				continue
			}
			edges[edge] = true
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", svc.Service, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (p *Provider) SprintGraphDOT() string {
	var sb strings.Builder
	p.FprintGraphDOT(&sb)
	return sb.String()
}

// FprintTable renders the registrations as a table.
func (p *Provider) FprintTable(w io.Writer) {
	info := p.Graph()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Service", "Implementation", "Lifetime", "Strategy", "Cached", "Depends on"})

	for i, svc := range info.Services {
		cached := ""
		if svc.Cached {
			cached = "yes"
		}
		t.AppendRow(table.Row{
			i + 1,
			escapeLabel(svc.Service),
			escapeLabel(svc.Implementation),
			svc.Lifetime.String(),
			svc.Strategy,
			cached,
			strings.Join(shortNames(svc.Dependencies), ", "),
		})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d registrations", len(info.Services))})
	t.Render()
}

func escapeLabel(s string) string {
	prefix := ""
	for strings.HasPrefix(s, "*") || strings.HasPrefix(s, "[]") {
		if strings.HasPrefix(s, "*") {
			prefix += "*"
			s = s[1:]
		} else {
			prefix += "[]"
			s = s[2:]
		}
	}
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return prefix + s
}

func shortNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = escapeLabel(n)
	}
	return out
}
