package core

// namedRules is the registry of rule strings selectable by name from the
// command line.
var namedRules = map[string]string{}

// RegisterRule adds a named rule string to the registry.
func RegisterRule(name, rule string) {
	if name == "" || rule == "" {
		return
	}
	namedRules[name] = rule
}

// NamedRule looks up a registered rule string by name.
func NamedRule(name string) (string, bool) {
	r, ok := namedRules[name]
	return r, ok
}

// Rules exposes the registry of named rules.
func Rules() map[string]string {
	return namedRules
}

func init() {
	RegisterRule("life", "B3/S23")
	RegisterRule("highlife", "B36/S23")
	RegisterRule("seeds", "B2/S")
	RegisterRule("daynight", "B3678/S34678")
	RegisterRule("replicator", "B1357/S1357")
}
