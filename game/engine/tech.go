package engine

// NewTechTree returns the configured tech tree with every tech locked
func NewTechTree(config *GameConfig) map[TechID]ResearchTech {
	tree := make(map[TechID]ResearchTech, len(config.Techs))
	for id, spec := range config.Techs {
		tree[id] = ResearchTech{
			ID:           id,
			Name:         spec.Name,
			Description:  spec.Description,
			Cost:         spec.Cost,
			Dependencies: append([]TechID{}, spec.Dependencies...),
		}
	}
	return tree
}

// IsUnlocked reports whether the tech has been researched
func (s GameState) IsUnlocked(id TechID) bool {
	return s.TechTree[id].Unlocked
}

// DependenciesMet reports whether every prerequisite of the tech is unlocked
func (s GameState) DependenciesMet(id TechID) bool {
	tech, ok := s.TechTree[id]
	if !ok {
		return false
	}
	for _, dep := range tech.Dependencies {
		if !s.IsUnlocked(dep) {
			return false
		}
	}
	return true
}

// CanUnlock reports whether UnlockTech would succeed
func (s GameState) CanUnlock(id TechID) bool {
	tech, ok := s.TechTree[id]
	if !ok || tech.Unlocked {
		return false
	}
	return s.ResearchPoints >= tech.Cost && s.DependenciesMet(id)
}

// MissingDependencies returns the prerequisites that are still locked
func (s GameState) MissingDependencies(id TechID) []TechID {
	var missing []TechID
	for _, dep := range s.TechTree[id].Dependencies {
		if !s.IsUnlocked(dep) {
			missing = append(missing, dep)
		}
	}
	return missing
}

// techModifiers resolves the solver multipliers from the unlocked techs
func techModifiers(s GameState, m TechModifiers) (solarBoost, batteryBoost, maintDiscount float64) {
	solarBoost, batteryBoost, maintDiscount = 1.0, 1.0, 1.0
	if s.IsUnlocked(ImproveSolar) {
		solarBoost = m.SolarBoost
	}
	if s.IsUnlocked(ImproveBattery) {
		batteryBoost = m.BatteryBoost
	}
	if s.IsUnlocked(GridOptimization) {
		maintDiscount = m.MaintenanceDiscount
	}
	return solarBoost, batteryBoost, maintDiscount
}
