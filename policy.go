package goGuard

import (
	"context"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Policy is a declarative access-control snapshot, usually loaded from
// YAML and replayed through the owner-gated mutation API by [Policy.Apply].
type Policy struct {
	// Roles maps symbolic role names to role numbers so the rest of the
	// document can use names.
	Roles map[string]Role `yaml:"roles"`

	Users     []PolicyUser     `yaml:"users"`
	Functions []PolicyFunction `yaml:"functions"`
	Pause     PolicyPause      `yaml:"pause"`
}

// PolicyUser assigns roles to one address.
type PolicyUser struct {
	Address string   `yaml:"address"`
	Roles   []string `yaml:"roles"`
}

// PolicyFunction configures one capability. Either Signature or Selector
// identifies the function; Signature wins when both are set.
type PolicyFunction struct {
	Target    string   `yaml:"target"`
	Signature string   `yaml:"signature"`
	Selector  string   `yaml:"selector"`
	Public    bool     `yaml:"public"`
	Closed    bool     `yaml:"closed"`
	Roles     []string `yaml:"roles"`
}

// PolicyPause is the declarative pause state.
type PolicyPause struct {
	Global  bool     `yaml:"global"`
	Targets []string `yaml:"targets"`
}

// ParsePolicy decodes a YAML policy document. Unknown fields are rejected
// so typos fail loudly instead of silently granting nothing.
func ParsePolicy(r io.Reader) (*Policy, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Policy
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("goGuard: parse policy: %w", err)
	}
	return &p, nil
}

// Apply replays the policy through the suite's mutation API as caller. The
// replay is additive: it grants what the document names and touches nothing
// else, so it is not idempotent against out-of-band revocations.
func (p *Policy) Apply(ctx context.Context, suite *Suite, caller common.Address) error {
	for _, user := range p.Users {
		addr, err := parsePolicyAddress(user.Address)
		if err != nil {
			return err
		}
		for _, name := range user.Roles {
			role, err := p.resolveRole(name)
			if err != nil {
				return err
			}
			if err := suite.Auth.SetUserRole(ctx, caller, addr, role, true); err != nil {
				return fmt.Errorf("goGuard: apply user %s role %s: %w", user.Address, name, err)
			}
		}
	}

	for _, fn := range p.Functions {
		target, err := parsePolicyAddress(fn.Target)
		if err != nil {
			return err
		}
		selector, err := fn.selector()
		if err != nil {
			return err
		}

		for _, name := range fn.Roles {
			role, err := p.resolveRole(name)
			if err != nil {
				return err
			}
			if err := suite.Auth.SetRoleCapability(ctx, caller, target, selector, role, true); err != nil {
				return fmt.Errorf("goGuard: apply capability %s/%s: %w", fn.Target, selector.Hex(), err)
			}
		}
		if fn.Public {
			if err := suite.Auth.SetPublicCapability(ctx, caller, target, selector, true); err != nil {
				return fmt.Errorf("goGuard: apply public %s/%s: %w", fn.Target, selector.Hex(), err)
			}
		}
		if fn.Closed {
			if err := suite.Auth.SetClosedCapability(ctx, caller, target, selector, true); err != nil {
				return fmt.Errorf("goGuard: apply closed %s/%s: %w", fn.Target, selector.Hex(), err)
			}
		}
	}

	if p.Pause.Global {
		if err := suite.Pause.SetGloballyPaused(ctx, caller, true); err != nil {
			return fmt.Errorf("goGuard: apply global pause: %w", err)
		}
	}
	for _, raw := range p.Pause.Targets {
		target, err := parsePolicyAddress(raw)
		if err != nil {
			return err
		}
		if err := suite.Pause.SetTargetPaused(ctx, caller, target, true); err != nil {
			return fmt.Errorf("goGuard: apply target pause %s: %w", raw, err)
		}
	}

	return nil
}

func (p *Policy) resolveRole(name string) (Role, error) {
	role, ok := p.Roles[name]
	if !ok {
		return 0, fmt.Errorf("goGuard: policy references undefined role %q", name)
	}
	if role > MaxRole {
		return 0, fmt.Errorf("goGuard: policy role %q: %w", name, ErrInvalidRole)
	}
	return role, nil
}

func (f PolicyFunction) selector() (Selector, error) {
	if f.Signature != "" {
		return SelectorOf(f.Signature), nil
	}
	sel, err := ParseSelector(f.Selector)
	if err != nil {
		return Selector{}, fmt.Errorf("goGuard: policy function %s: %w", f.Target, err)
	}
	return sel, nil
}

func parsePolicyAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("goGuard: policy address %q is not a hex address", raw)
	}
	return common.HexToAddress(raw), nil
}
