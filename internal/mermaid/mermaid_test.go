package mermaid

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wexinc/gantt/internal/project"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestParser() *Parser {
	p := NewParser()
	p.SetClock(func() time.Time { return time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC) })
	p.SetIDGenerator(project.SequentialIDs("id"))
	return p
}

const releasePlan = `gantt
    title Release plan
    dateFormat YYYY-MM-DD
    excludes weekends, 2024-01-01
    section Build
    Design :active, des1, 2024-01-08, 7d
    Build :after des1, 5d
    section Ship
    Launch :milestone, l1, 2024-02-01, 1d`

func TestParse_Directives(t *testing.T) {
	doc := newTestParser().Parse(releasePlan).Document

	assert.Equal(t, "Release plan", doc.Config.Title)
	assert.Equal(t, "YYYY-MM-DD", doc.Config.DateFormat)
	assert.Equal(t, project.DefaultAxisFormat, doc.Config.AxisFormat)
	assert.Equal(t, []string{"weekends", "2024-01-01"}, doc.Config.Excludes)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Build", doc.Sections[0].Name)
	assert.Equal(t, 0, doc.Sections[0].Order)
	assert.Equal(t, "Ship", doc.Sections[1].Name)
	assert.Equal(t, 1, doc.Sections[1].Order)
}

func TestParse_DatedTask(t *testing.T) {
	res := newTestParser().Parse(releasePlan)
	require.Len(t, res.Document.Tasks, 3)

	design := res.Document.Tasks[0]
	assert.Equal(t, "Design", design.Title)
	assert.Equal(t, project.StatusActive, design.Status)
	assert.Equal(t, day("2024-01-08"), design.StartDate)
	assert.Equal(t, day("2024-01-14"), design.EndDate)
	assert.Empty(t, design.Dependencies)
	assert.False(t, design.IsMilestone)
	assert.Equal(t, res.Document.Sections[0].ID, design.SectionID)
	assert.Empty(t, res.Warnings)
}

func TestParse_AfterClause(t *testing.T) {
	doc := newTestParser().Parse(releasePlan).Document

	design, build := doc.Tasks[0], doc.Tasks[1]
	assert.Equal(t, "Build", build.Title)
	assert.Equal(t, project.StatusNone, build.Status)
	assert.Equal(t, day("2024-01-15"), build.StartDate)
	assert.Equal(t, day("2024-01-19"), build.EndDate)
	assert.Equal(t, []string{design.ID}, build.Dependencies)
}

func TestParse_Milestone(t *testing.T) {
	doc := newTestParser().Parse(releasePlan).Document

	launch := doc.Tasks[2]
	assert.True(t, launch.IsMilestone)
	assert.Equal(t, project.StatusMilestone, launch.Status)
	assert.Equal(t, launch.StartDate, launch.EndDate)
	assert.Equal(t, doc.Sections[1].ID, launch.SectionID)
}

func TestParse_Fallbacks(t *testing.T) {
	today := day("2024-03-01")
	tests := []struct {
		name      string
		line      string
		wantStart time.Time
		wantEnd   time.Time
		wantDeps  int
	}{
		{"unknown alias starts today", "A :after nope, 3d", today, day("2024-03-03"), 0},
		{"garbage start starts today", "A :a1, soon, 2d", today, day("2024-03-02"), 0},
		{"garbage duration is one day", "A :2024-01-10, forever", day("2024-01-10"), day("2024-01-10"), 0},
		{"weeks", "A :2024-01-01, 2w", day("2024-01-01"), day("2024-01-14"), 0},
		{"hours round up", "A :2024-01-01, 36h", day("2024-01-01"), day("2024-01-02"), 0},
		{"explicit end date", "A :2024-01-01, 2024-01-05", day("2024-01-01"), day("2024-01-05"), 0},
		{"end before start coerced", "A :2024-01-10, 2024-01-05", day("2024-01-10"), day("2024-01-10"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestParser().Parse("gantt\n" + tt.line)
			require.Len(t, res.Document.Tasks, 1)
			task := res.Document.Tasks[0]
			assert.Equal(t, tt.wantStart, task.StartDate)
			assert.Equal(t, tt.wantEnd, task.EndDate)
			assert.Len(t, task.Dependencies, tt.wantDeps)
		})
	}
}

func TestParse_ForwardReferenceNotResolved(t *testing.T) {
	doc := newTestParser().Parse("gantt\nLater :after first, 2d\nFirst :first, 2024-01-01, 3d").Document

	require.Len(t, doc.Tasks, 2)
	assert.Empty(t, doc.Tasks[0].Dependencies)
	assert.Equal(t, day("2024-03-01"), doc.Tasks[0].StartDate)
}

func TestParse_CustomDateFormat(t *testing.T) {
	input := "gantt\ndateFormat DD/MM/YYYY\nA :a1, 15/01/2024, 3d"
	doc := newTestParser().Parse(input).Document

	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, day("2024-01-15"), doc.Tasks[0].StartDate)
	assert.Equal(t, day("2024-01-17"), doc.Tasks[0].EndDate)
}

func TestParse_Defaults(t *testing.T) {
	p := newTestParser()
	p.SetDefaults(project.Config{DateFormat: "DD/MM/YYYY", AxisFormat: "%d/%m", Excludes: []string{"weekends"}})

	doc := p.Parse("gantt\n    Design :des1, 08/01/2024, 3d").Document
	assert.Equal(t, "DD/MM/YYYY", doc.Config.DateFormat)
	assert.Equal(t, "%d/%m", doc.Config.AxisFormat)
	assert.Equal(t, []string{"weekends"}, doc.Config.Excludes)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, day("2024-01-08"), doc.Tasks[0].StartDate)

	doc = p.Parse("gantt\n    dateFormat YYYY-MM-DD\n    Design :des1, 2024-01-08, 3d").Document
	assert.Equal(t, "YYYY-MM-DD", doc.Config.DateFormat)
	assert.Equal(t, day("2024-01-08"), doc.Tasks[0].StartDate)
}

func TestParse_EndBeforeStartWarns(t *testing.T) {
	res := newTestParser().Parse("gantt\n    section Build\n    A :a1, 2024-01-10, 2024-01-05")

	require.Len(t, res.Document.Tasks, 1)
	assert.Equal(t, day("2024-01-10"), res.Document.Tasks[0].EndDate)
	assert.Equal(t, []string{
		"Line 3: end date before start date, using start date: A :a1, 2024-01-10, 2024-01-05",
	}, res.Warnings)

	res = newTestParser().Parse("gantt\n    A :2024-01-10, 0d")
	require.Len(t, res.Document.Tasks, 1)
	assert.Equal(t, day("2024-01-10"), res.Document.Tasks[0].EndDate)
	assert.Len(t, res.Warnings, 1)
}

func TestRoundTrip_ColonInTitleIsTruncated(t *testing.T) {
	doc := project.NewDocument()
	doc.Tasks = []*project.Task{project.NewTask("a", "Phase 1: Design", day("2024-01-08"), day("2024-01-14"))}

	out := Serialize(doc)
	assert.Contains(t, out, "Phase 1: Design :pha1, 2024-01-08, 7d")

	res := newTestParser().Parse(out)
	require.Len(t, res.Document.Tasks, 1)
	task := res.Document.Tasks[0]
	assert.Equal(t, "Phase 1", task.Title)
	assert.Equal(t, day("2024-01-08"), task.StartDate)
	assert.Equal(t, day("2024-01-14"), task.EndDate)
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	input := `gantt
    %% a comment
    this line means nothing
    : no title
    Lonely :5d
    Good :2024-01-01, 1d`
	res := newTestParser().Parse(input)

	require.Len(t, res.Document.Tasks, 1)
	assert.Equal(t, "Good", res.Document.Tasks[0].Title)
	require.Len(t, res.Warnings, 3)
	assert.True(t, strings.HasPrefix(res.Warnings[0], "Line 3:"))
}

func TestParse_EmptyInput(t *testing.T) {
	doc := Parse("")
	assert.Empty(t, doc.Tasks)
	assert.Empty(t, doc.Sections)
	assert.Equal(t, "YYYY-MM-DD", doc.Config.DateFormat)
}

func TestParse_DurationInvariant(t *testing.T) {
	doc := newTestParser().Parse("gantt\nA :2024-02-27, 4d\nB :2024-12-30, 1w").Document

	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, 4, doc.Tasks[0].Duration())
	assert.Equal(t, day("2024-03-01"), doc.Tasks[0].EndDate)
	assert.Equal(t, 7, doc.Tasks[1].Duration())
	assert.Equal(t, day("2025-01-05"), doc.Tasks[1].EndDate)
}

func TestValidate_Clean(t *testing.T) {
	doc := newTestParser().Parse(releasePlan).Document
	assert.Empty(t, Validate(doc))
}

func TestValidate_Cycle(t *testing.T) {
	a := project.NewTask("a", "Alpha", day("2024-01-01"), day("2024-01-02"))
	b := project.NewTask("b", "Beta", day("2024-01-03"), day("2024-01-04"))
	c := project.NewTask("c", "Gamma", day("2024-01-05"), day("2024-01-06"))
	a.Dependencies = []string{"b"}
	b.Dependencies = []string{"c"}
	c.Dependencies = []string{"b"}

	doc := project.NewDocument()
	doc.Tasks = []*project.Task{a, b, c}

	problems := Validate(doc)
	require.Len(t, problems, 1)
	assert.Equal(t, "Circular dependency detected involving task: Beta", problems[0])
}

func TestValidate_SelfDependency(t *testing.T) {
	a := project.NewTask("a", "Alpha", day("2024-01-01"), day("2024-01-02"))
	a.Dependencies = []string{"a", "missing"}
	doc := project.NewDocument()
	doc.Tasks = []*project.Task{a}

	assert.Equal(t, []string{"Circular dependency detected involving task: Alpha"}, Validate(doc))
}

func TestValidate_EndBeforeStart(t *testing.T) {
	a := project.NewTask("a", "Alpha", day("2024-01-05"), day("2024-01-01"))
	b := project.NewTask("b", "Beta", day("2024-01-05"), day("2024-01-04"))
	doc := project.NewDocument()
	doc.Tasks = []*project.Task{a, b}

	assert.Equal(t, []string{
		`Task "Alpha" has end date before start date`,
		`Task "Beta" has end date before start date`,
	}, Validate(doc))
}

func TestGenerateAliases(t *testing.T) {
	doc := project.NewDocument()
	doc.Tasks = []*project.Task{
		project.NewTask("t1", "Design Review", day("2024-01-01"), day("2024-01-01")),
		project.NewTask("t2", "Design Review", day("2024-01-01"), day("2024-01-01")),
		project.NewTask("t3", "!!", day("2024-01-01"), day("2024-01-01")),
		project.NewTask("t4", "Q3 plan", day("2024-01-01"), day("2024-01-01")),
	}

	aliases := GenerateAliases(doc)
	assert.Equal(t, map[string]string{"t1": "des1", "t2": "des2", "t3": "3", "t4": "q3p4"}, aliases)

	// The counter restarts on every call.
	assert.Equal(t, aliases, GenerateAliases(doc))
}

func TestSerialize(t *testing.T) {
	doc := newTestParser().Parse(releasePlan).Document

	want := `gantt
    title Release plan
    dateFormat YYYY-MM-DD
    excludes weekends, 2024-01-01
    section Build
    Design :active, des1, 2024-01-08, 7d
    Build :bui2, after des1, 5d
    section Ship
    Launch :milestone, lau3, 2024-02-01, 1d`
	assert.Equal(t, want, Serialize(doc))
}

func TestSerialize_UncategorizedOnlyWithSections(t *testing.T) {
	doc := project.NewDocument()
	doc.Tasks = []*project.Task{project.NewTask("t1", "Solo", day("2024-01-01"), day("2024-01-02"))}

	out := Serialize(doc)
	assert.NotContains(t, out, UncategorizedSection)
	assert.Contains(t, out, "    Solo :sol1, 2024-01-01, 2d")

	doc.Sections = []*project.Section{{ID: "s1", Name: "Main", Order: 0}}
	out = Serialize(doc)
	assert.Contains(t, out, "    section Main\n    section Uncategorized\n    Solo :sol1, 2024-01-01, 2d")
}

func TestSerialize_MilestoneFlagWins(t *testing.T) {
	task := project.NewTask("t1", "Go live", day("2024-05-01"), day("2024-05-01"))
	task.Status = project.StatusDone
	task.IsMilestone = true
	doc := project.NewDocument()
	doc.Tasks = []*project.Task{task}

	assert.Contains(t, Serialize(doc), "Go live :milestone, gol1, 2024-05-01, 1d")
}

func TestSerialize_AxisFormatAndDateFormat(t *testing.T) {
	doc := project.NewDocument()
	doc.Config.DateFormat = "DD/MM/YYYY"
	doc.Config.AxisFormat = "%d %b"
	doc.Tasks = []*project.Task{project.NewTask("t1", "A", day("2024-01-15"), day("2024-01-16"))}

	out := Serialize(doc)
	assert.Contains(t, out, "    dateFormat DD/MM/YYYY\n    axisFormat %d %b\n")
	assert.Contains(t, out, "A :a1, 15/01/2024, 2d")
}

func TestSerialize_ForwardDependencyUsesDate(t *testing.T) {
	first := project.NewTask("t1", "Later", day("2024-01-10"), day("2024-01-11"))
	second := project.NewTask("t2", "Earlier", day("2024-01-01"), day("2024-01-09"))
	first.Dependencies = []string{"t2"}
	doc := project.NewDocument()
	doc.Tasks = []*project.Task{first, second}

	out := Serialize(doc)
	assert.Contains(t, out, "Later :lat1, 2024-01-10, 2d")
	assert.NotContains(t, out, "after")
}

func TestRoundTrip(t *testing.T) {
	p := newTestParser()
	first := p.Parse(releasePlan).Document
	second := newTestParser().Parse(Serialize(first)).Document

	assert.Equal(t, first.Config, second.Config)
	require.Len(t, second.Sections, len(first.Sections))
	for i := range first.Sections {
		assert.Equal(t, first.Sections[i].Name, second.Sections[i].Name)
		assert.Equal(t, first.Sections[i].Order, second.Sections[i].Order)
	}

	require.Len(t, second.Tasks, len(first.Tasks))
	for i, want := range first.Tasks {
		got := second.Tasks[i]
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.StartDate, got.StartDate)
		assert.Equal(t, want.EndDate, got.EndDate)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.IsMilestone, got.IsMilestone)
		assert.Len(t, got.Dependencies, len(want.Dependencies))
	}
}
