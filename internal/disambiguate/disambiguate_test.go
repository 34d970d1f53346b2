package disambiguate

import (
	"testing"

	"github.com/nexusats/matchengine/internal/domain"
)

func TestPasses_NilRulesAllow(t *testing.T) {
	if !Passes(nil, "java", "backend services") {
		t.Fatal("nil rules should fail open (allow)")
	}
}

func TestPasses_BlockIfContains(t *testing.T) {
	rules := &domain.DisambiguationRules{BlockIfContains: []string{"javascript"}}

	if Passes(rules, "java", "javascript frameworks") {
		t.Fatal("expected block when blocked phrase appears in context")
	}
	if !Passes(rules, "java", "backend services") {
		t.Fatal("expected allow when blocked phrase absent")
	}
}

func TestPasses_AllowIfContainsRequiresMatch(t *testing.T) {
	rules := &domain.DisambiguationRules{AllowIfContains: []string{"spring", "jvm"}}

	if !Passes(rules, "java", "spring boot services") {
		t.Fatal("expected allow when one allow-phrase present")
	}
	if Passes(rules, "java", "frontend react app") {
		t.Fatal("expected block when no allow-phrase present")
	}
}

func TestPasses_BlockTakesPrecedenceOverAllow(t *testing.T) {
	rules := &domain.DisambiguationRules{
		BlockIfContains: []string{"javascript"},
		AllowIfContains: []string{"java"},
	}

	if Passes(rules, "java", "javascript frameworks") {
		t.Fatal("block phrases must be checked before allow phrases")
	}
}

func TestPasses_EmptyPhrasesIgnored(t *testing.T) {
	rules := &domain.DisambiguationRules{
		BlockIfContains: []string{""},
		AllowIfContains: []string{},
	}
	if !Passes(rules, "java", "anything") {
		t.Fatal("empty block phrases and no allow phrases should allow")
	}
}
