package workflow

import "fmt"

// GateConfig holds the deployment-specific parts of the role-gate table.
type GateConfig struct {
	// FirstGateRoles may act on pending requests.
	FirstGateRoles []Role
	// ConsentProxyRoles record parent consent on the parent's behalf.
	ConsentProxyRoles []Role
	// FinalGate selects hostel or security sign-out/sign-in.
	FinalGate FinalGate
}

// DefaultGateConfig is the configuration used when none is supplied.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		FirstGateRoles:    []Role{RoleDean, RoleDeputyDean},
		ConsentProxyRoles: []Role{RoleDeputyDean, RoleDean, RoleAdmin},
		FinalGate:         FinalGateHostel,
	}
}

// Gate is the set of roles and actions allowed on one status.
type Gate struct {
	Roles   RoleSet
	Actions map[Action]struct{}
}

// AllowsRole reports whether r may act at this gate.
func (g Gate) AllowsRole(r Role) bool { return g.Roles.Has(r) }

// AllowsAction reports whether a is legal at this gate.
func (g Gate) AllowsAction(a Action) bool {
	_, ok := g.Actions[a]
	return ok
}

// ActionList returns the gate's actions in canonical order.
func (g Gate) ActionList() []Action {
	out := make([]Action, 0, len(g.Actions))
	for _, a := range allActions {
		if g.AllowsAction(a) {
			out = append(out, a)
		}
	}
	return out
}

// GateTable maps every registered status to exactly one Gate.
type GateTable struct {
	cfg   GateConfig
	gates map[Status]Gate
}

// NewGateTable builds the table for cfg. Empty role lists fall back to the
// defaults; an unknown final gate is an error.
func NewGateTable(cfg GateConfig) (*GateTable, error) {
	def := DefaultGateConfig()
	if len(cfg.FirstGateRoles) == 0 {
		cfg.FirstGateRoles = def.FirstGateRoles
	}
	if len(cfg.ConsentProxyRoles) == 0 {
		cfg.ConsentProxyRoles = def.ConsentProxyRoles
	}
	if cfg.FinalGate == "" {
		cfg.FinalGate = def.FinalGate
	}
	if _, ok := ParseFinalGate(string(cfg.FinalGate)); !ok {
		return nil, fmt.Errorf("unknown final gate %q", cfg.FinalGate)
	}

	review := actions(ActionApprove, ActionReject, ActionComment)
	gates := map[Status]Gate{
		StatusPending:          {Roles: NewRoleSet(cfg.FirstGateRoles...), Actions: review},
		StatusCMDReview:        {Roles: NewRoleSet(RoleCMD), Actions: review},
		StatusDeputyDeanReview: {Roles: NewRoleSet(RoleDeputyDean), Actions: review},
		StatusSecretaryReview:  {Roles: NewRoleSet(RoleDeputyDean), Actions: review},
		StatusParentConsent:    {Roles: NewRoleSet(cfg.ConsentProxyRoles...), Actions: actions(ActionConsent, ActionReject, ActionComment)},
		StatusDeanReview:       {Roles: NewRoleSet(RoleDean), Actions: review},
		StatusHostelSignOut:    {Roles: NewRoleSet(RoleHostelAdmin), Actions: actions(ActionSignOut, ActionReject, ActionComment)},
		StatusHostelSignIn:     {Roles: NewRoleSet(RoleHostelAdmin), Actions: actions(ActionSignIn, ActionReject, ActionComment)},
		StatusSecuritySignOut:  {Roles: NewRoleSet(RoleSecurity), Actions: actions(ActionSignOut, ActionReject, ActionComment)},
		StatusSecuritySignIn:   {Roles: NewRoleSet(RoleSecurity), Actions: actions(ActionSignIn, ActionReject, ActionComment)},
		StatusApproved:         {Roles: NewRoleSet(cfg.FinalGate.Role()), Actions: actions(ActionSignIn, ActionReject, ActionComment)},
		StatusCompleted:        {Roles: NewRoleSet(), Actions: actions()},
		StatusRejected:         {Roles: NewRoleSet(), Actions: actions()},
	}
	return &GateTable{cfg: cfg, gates: gates}, nil
}

// MustGateTable is NewGateTable for configurations known to be valid.
func MustGateTable(cfg GateConfig) *GateTable {
	t, err := NewGateTable(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// Config returns the effective configuration of the table.
func (t *GateTable) Config() GateConfig { return t.cfg }

// Lookup returns the gate for s.
func (t *GateTable) Lookup(s Status) (Gate, bool) {
	g, ok := t.gates[s]
	return g, ok
}

func actions(as ...Action) map[Action]struct{} {
	m := make(map[Action]struct{}, len(as))
	for _, a := range as {
		m[a] = struct{}{}
	}
	return m
}
