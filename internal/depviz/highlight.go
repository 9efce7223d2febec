package depviz

// HighlightComponent marks the edges leaving name and, when dependents is
// set, the edges entering it. Previous highlights are cleared.
func (a *Analysis) HighlightComponent(name string, dependents bool) {
	for i := range a.Dependencies {
		d := &a.Dependencies[i]
		d.Highlighted = d.Edge.From == name || (dependents && d.Edge.To == name)
	}
}

// HighlightCycles marks one edge for every consecutive pair in each
// detected cycle, wrap-around pair included. Previous highlights are
// cleared.
func (a *Analysis) HighlightCycles() {
	for i := range a.Dependencies {
		a.Dependencies[i].Highlighted = false
	}
	for _, cycle := range a.Cycles {
		for i, from := range cycle.Components {
			to := cycle.Components[(i+1)%len(cycle.Components)]
			for j := range a.Dependencies {
				d := &a.Dependencies[j]
				if d.Edge.From == from && d.Edge.To == to {
					d.Highlighted = true
					break
				}
			}
		}
	}
}

// FilterByStrength resets edge visibility against a new minimum weight.
func (a *Analysis) FilterByStrength(min float64) {
	for i := range a.Dependencies {
		d := &a.Dependencies[i]
		d.Visible = d.VisualWeight >= min
	}
}
