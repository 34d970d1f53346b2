package domain

import "testing"

func TestNormalizationMethod_Stronger(t *testing.T) {
	cases := []struct {
		a, b NormalizationMethod
		want bool
	}{
		{MethodExact, MethodAlias, true},
		{MethodAlias, MethodRule, true},
		{MethodRule, MethodVector, true},
		{MethodVector, MethodNone, true},
		{MethodNone, MethodExact, false},
		{MethodExact, MethodExact, false},
	}
	for _, c := range cases {
		if got := c.a.Stronger(c.b); got != c.want {
			t.Errorf("%v.Stronger(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestWeightTables_NilSafeDefaults(t *testing.T) {
	var w *WeightTables
	if got := w.BaseWeight(SkillTypeProgramming); got != 1.0 {
		t.Errorf("expected nil WeightTables.BaseWeight to default to 1.0, got %v", got)
	}
	if got := w.RoleWeight("Backend", SeniorityMid, SkillTypeProgramming); got != 1.0 {
		t.Errorf("expected nil WeightTables.RoleWeight to default to 1.0, got %v", got)
	}
}

func TestWeightTables_ConfiguredLookup(t *testing.T) {
	w := &WeightTables{
		SkillTypeWeight: map[SkillType]float64{SkillTypeProgramming: 1.5},
		RoleSkillTypeWeight: map[RoleWeightKey]map[SkillType]float64{
			{PrimaryDomain: "Backend", SeniorityLevel: SeniorityLevelSenior}: {SkillTypeProgramming: 2.0},
		},
	}
	if got := w.BaseWeight(SkillTypeProgramming); got != 1.5 {
		t.Errorf("BaseWeight = %v, want 1.5", got)
	}
	if got := w.BaseWeight(SkillTypeTool); got != 1.0 {
		t.Errorf("expected unconfigured skill type to default to 1.0, got %v", got)
	}
	if got := w.RoleWeight("Backend", SeniorityLevelSenior, SkillTypeProgramming); got != 2.0 {
		t.Errorf("RoleWeight = %v, want 2.0", got)
	}
	if got := w.RoleWeight("Frontend", SeniorityLevelSenior, SkillTypeProgramming); got != 1.0 {
		t.Errorf("expected unconfigured role key to default to 1.0, got %v", got)
	}
}

func TestJobSkillProfile_HardAndSoftSplit(t *testing.T) {
	hard := &SkillRequirement{RawSkill: "Go", RequirementLvl: RequirementHard}
	soft := &SkillRequirement{RawSkill: "Docker", RequirementLvl: RequirementSoft}
	p := &JobSkillProfile{Requirements: []Requirement{hard, soft}}

	if got := p.HardRequirements(); len(got) != 1 || got[0] != hard {
		t.Errorf("HardRequirements() = %v, want [hard]", got)
	}
	if got := p.SoftRequirements(); len(got) != 1 || got[0] != soft {
		t.Errorf("SoftRequirements() = %v, want [soft]", got)
	}
}
