package goGuard

import (
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

const samplePolicy = `
roles:
  admin: 0
  operator: 2
users:
  - address: "0x0000000000000000000000000000000000000b01"
    roles: [admin, operator]
functions:
  - target: "0x0000000000000000000000000000000000000c01"
    signature: "withdraw(uint256)"
    roles: [operator]
  - target: "0x0000000000000000000000000000000000000c01"
    selector: "0xdeadbeef"
    public: true
  - target: "0x0000000000000000000000000000000000000c02"
    signature: "emergencyDrain()"
    closed: true
pause:
  global: false
  targets:
    - "0x0000000000000000000000000000000000000c02"
`

func TestParseAndApplyPolicy(t *testing.T) {
	policy, err := ParsePolicy(strings.NewReader(samplePolicy))
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}

	suite := newTestSuite(t)
	ctx := context.Background()

	if err := policy.Apply(ctx, suite, testOwner); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	frozen := common.HexToAddress("0x0000000000000000000000000000000000000c02")
	publicSel, _ := ParseSelector("0xdeadbeef")

	if !suite.Auth.HasRole(testUser, 0) || !suite.Auth.HasRole(testUser, 2) {
		t.Fatal("user roles not applied")
	}
	if !suite.Auth.CanCall(testUser, testTarget, SelectorOf("withdraw(uint256)")) {
		t.Fatal("role capability not applied")
	}
	if !suite.Auth.CanCall(testIntruder, testTarget, publicSel) {
		t.Fatal("public capability not applied")
	}
	if suite.Auth.CanCall(testUser, frozen, SelectorOf("emergencyDrain()")) {
		t.Fatal("closed capability not applied")
	}
	if !suite.Pause.IsTargetPaused(frozen) {
		t.Fatal("target pause not applied")
	}
	if suite.Pause.IsGloballyPaused() {
		t.Fatal("global pause applied without being requested")
	}
}

func TestApplyRequiresOwner(t *testing.T) {
	policy, err := ParsePolicy(strings.NewReader(samplePolicy))
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}

	suite := newTestSuite(t)
	if err := policy.Apply(context.Background(), suite, testIntruder); err == nil {
		t.Fatal("expected apply to fail for non-owner")
	}
}

func TestParsePolicyRejectsUnknownFields(t *testing.T) {
	doc := `
roles:
  admin: 0
userz:
  - address: "0x0000000000000000000000000000000000000b01"
`
	if _, err := ParsePolicy(strings.NewReader(doc)); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestPolicyValidation(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{
			"undefined role",
			`
users:
  - address: "0x0000000000000000000000000000000000000b01"
    roles: [ghost]
`,
		},
		{
			"role out of range",
			`
roles:
  sentinel: 255
users:
  - address: "0x0000000000000000000000000000000000000b01"
    roles: [sentinel]
`,
		},
		{
			"bad address",
			`
roles:
  admin: 0
users:
  - address: "not-an-address"
    roles: [admin]
`,
		},
		{
			"bad selector",
			`
functions:
  - target: "0x0000000000000000000000000000000000000c01"
    selector: "0x123"
    public: true
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy, err := ParsePolicy(strings.NewReader(tc.doc))
			if err != nil {
				t.Fatalf("ParsePolicy: %v", err)
			}
			suite := newTestSuite(t)
			if err := policy.Apply(context.Background(), suite, testOwner); err == nil {
				t.Fatal("expected apply to fail")
			}
		})
	}
}
