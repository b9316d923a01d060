package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/giwty/slm-view/db"
	"github.com/giwty/slm-view/listing"
	"github.com/giwty/slm-view/model"
	"github.com/giwty/slm-view/progress"
	"github.com/giwty/slm-view/tabs"
	"gopkg.in/yaml.v3"
	"robpike.io/nihongo"
)

func libraryView(items []model.LibraryItem, filter string, s listing.Sort) tabs.View[model.LibraryItem] {
	shown := listing.LibraryTable.Apply(items, filter, s)
	state := tabs.Ready
	if len(items) == 0 {
		state = tabs.ReadyEmpty
	}
	return tabs.View[model.LibraryItem]{
		Name:     tabs.TAB_LIBRARY,
		State:    state,
		Items:    shown,
		Total:    len(items),
		Matching: len(shown),
		Filter:   filter,
		Sort:     s,
	}
}

var library = []model.LibraryItem{
	{Name: "Zelda", TitleID: "01007EF00011E000", Update: 3, Region: "US"},
	{Name: "Mario Kart", TitleID: "0100152000022000", Update: 1},
	{Name: "Astral Chain", TitleID: "01007300020FA000"},
}

func TestTable(t *testing.T) {
	out := Table(listing.LibraryTable, libraryView(library, "", listing.Sort{Key: "update", Desc: true}), Options{Theme: THEME_LIGHT})

	for _, want := range []string{"Zelda", "Mario Kart", "01007300020FA000", "▼"} {
		if !strings.Contains(out, want) {
			t.Errorf("table misses %q\n%v", want, out)
		}
	}
	if strings.Index(out, "Zelda") > strings.Index(out, "Mario Kart") {
		t.Errorf("rows not in view order\n%v", out)
	}
	if !strings.Contains(strings.ToLower(out), "total") {
		t.Errorf("missing footer\n%v", out)
	}
}

func TestTableMatchingCount(t *testing.T) {
	out := strings.ToLower(Table(listing.LibraryTable, libraryView(library, "mario", listing.Sort{}), Options{}))
	if !strings.Contains(out, "1 of 3") || strings.Contains(out, "zelda") {
		t.Errorf("unexpected table\n%v", out)
	}
}

func TestEmptyStates(t *testing.T) {
	if out := Table(listing.LibraryTable, libraryView(nil, "", listing.Sort{}), Options{}); out != NO_DATA {
		t.Errorf("empty table = %q", out)
	}
	if out := Table(listing.LibraryTable, libraryView(library, "zzz", listing.Sort{}), Options{}); out != `No data matching "zzz"` {
		t.Errorf("no match = %q", out)
	}

	loading := tabs.View[model.IssueItem]{Name: tabs.TAB_ISSUES, State: tabs.Loading, Items: []model.IssueItem{}}
	if out := Table(listing.IssuesTable, loading, Options{}); out != LOADING {
		t.Errorf("loading = %q", out)
	}
}

func TestRomanizedNames(t *testing.T) {
	items := []model.LibraryItem{{Name: "ゼルダの伝説"}}
	out := Table(listing.LibraryTable, libraryView(items, "", listing.Sort{}), Options{Romanize: true})
	if !strings.Contains(out, nihongo.RomajiString("ゼルダの伝説")) {
		t.Errorf("name not romanized\n%v", out)
	}
}

func TestDLCColumnJoined(t *testing.T) {
	view := tabs.View[model.MissingDLCItem]{
		Name:     tabs.TAB_MISSING_DLC,
		State:    tabs.Ready,
		Items:    []model.MissingDLCItem{{Name: "Game A", MissingDLC: []string{"DLC1", "DLC2"}}},
		Total:    1,
		Matching: 1,
	}
	out := Table(listing.DLCTable, view, Options{Theme: THEME_BRIGHT})
	if !strings.Contains(out, "DLC1") || !strings.Contains(out, "DLC2") || strings.Contains(out, "[DLC1") {
		t.Errorf("unexpected dlc cell\n%v", out)
	}
}

func TestSummary(t *testing.T) {
	got := Summary(libraryView(library, "a", listing.Sort{Key: "name"}))
	if got != "LIBRARY: 3 | sort name asc" {
		t.Errorf("summary = %q", got)
	}
}

func TestThemes(t *testing.T) {
	if NextTheme(THEME_DARK) != THEME_LIGHT || NextTheme(THEME_BRIGHT) != THEME_DARK || NextTheme("neon") != THEME_DARK {
		t.Errorf("unexpected theme order")
	}
	if Style("neon").Name != Style(THEME_DARK).Name {
		t.Errorf("unknown theme not rendered dark")
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := YAML(&buf, libraryView(library, "", listing.Sort{Key: "update"})); err != nil {
		t.Fatal(err)
	}

	doc := struct {
		Tab   string              `yaml:"tab"`
		Total int                 `yaml:"total"`
		Sort  listing.Sort        `yaml:"sort"`
		Items []model.LibraryItem `yaml:"items"`
	}{}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Tab != tabs.TAB_LIBRARY || doc.Total != 3 || doc.Sort.Key != "update" {
		t.Errorf("unexpected document %+v", doc)
	}
	if len(doc.Items) != 3 || doc.Items[0].Name != "Astral Chain" || doc.Items[2].Update != 3 {
		t.Errorf("unexpected items %+v", doc.Items)
	}
}

func TestConsoleOverlay(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleOverlay(&buf)

	c.Update(progress.State{Visible: true, Label: "Scanning (5/10)", Update: db.ProgressUpdate{Curr: 5, Total: 10, Message: "Scanning"}})
	if !c.Visible() || !strings.Contains(buf.String(), "Scanning (5/10)") {
		t.Errorf("bar not drawn: %q", buf.String())
	}

	c.Update(progress.State{Visible: false})
	if c.Visible() {
		t.Errorf("bar still drawn after hide")
	}
}
