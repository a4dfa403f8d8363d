package sheet

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/louisbranch/kisheet/internal/sheet/character"
	"github.com/louisbranch/kisheet/internal/sheet/engine"
	"github.com/louisbranch/kisheet/internal/sheet/numeric"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
	"github.com/louisbranch/kisheet/internal/sheet/storage"
)

var funcs = template.FuncMap{
	"signed": numeric.Signed,
	"num": func(v float64) string {
		return numeric.FormatLargeNumber(v)
	},
	"join": strings.Join,
	"upper": func(a rules.Ability) string {
		return strings.ToUpper(string(a))
	},
	"stamp": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
}

var sheetTemplate = template.Must(template.New("sheet").Funcs(funcs).Parse(`{{.State.Meta.Name}} (level {{num .Derived.Level}}, {{.State.Meta.Alignment}})
Lineage:    {{.Derived.LineageLabel}}: {{.Derived.RaceComposite.Summary}}
Class:      {{.Derived.Class.Name}} / {{.Derived.Profession.Name}}
Form:       {{.Derived.Form.Name}}
Power:      {{.Derived.TransformedPowerLevelLabel}}
HP:         {{num .Derived.CurrentHP}} / {{num .Derived.MaxHP}}
Ki:         {{num .Derived.CurrentKi}} / {{num .Derived.MaxKi}} (recovery {{num .Derived.KiRecovery}})
Attack:     {{signed .Derived.AttackBonus}}  Damage: {{signed .Derived.DamageBonus}}  Defense: {{num .Derived.Defense}}
Initiative: {{signed .Derived.Initiative}}  Speed: {{num .Derived.Speed}}  Tech save DC: {{num .Derived.TechSaveDC}}
Proficiency: {{signed .Derived.ProficiencyBonus}}
{{range .Abilities}}{{upper .Key}} {{num .Score}} ({{signed .Mod}})  {{end}}
{{- if .Derived.RaceComposite.Features}}
Features:   {{join .Derived.RaceComposite.Features ", "}}{{end}}
`))

var formsTemplate = template.Must(template.New("forms").Funcs(funcs).Parse(`{{range .Forms}}{{if eq .ID $.Active}}* {{else}}  {{end}}{{.ID}}: {{.Name}} x{{num .PowerMultiplier}}{{if .Notes}} ({{.Notes}}){{end}}
{{end}}`))

var techniquesTemplate = template.Must(template.New("techniques").Funcs(funcs).Parse(`{{range .}}{{.Technique.ID}}: {{.Technique.Name}}, {{num .Technique.KiCost}} Ki, hit {{signed .Roll.BaseHit}}, damage {{.Technique.DamageDice}}{{signed .Roll.DamageMod}}{{if not .Usable}} [not enough Ki]{{end}}
{{end}}`))

var slotsTemplate = template.Must(template.New("slots").Funcs(funcs).Parse(`{{range .}}{{.ID}}  {{.Name}}  (updated {{stamp .UpdatedAt}})
{{else}}No saved slots.
{{end}}`))

type abilityLine struct {
	Key   rules.Ability
	Score float64
	Mod   float64
}

func renderSheet(w io.Writer, state character.State, d engine.Derived) error {
	abilities := make([]abilityLine, 0, len(rules.Abilities))
	for _, key := range rules.Abilities {
		score, _ := d.BoostedAbilities.Get(key)
		mod, _ := d.Mods.Get(key)
		abilities = append(abilities, abilityLine{Key: key, Score: score, Mod: mod})
	}
	return execute(w, sheetTemplate, map[string]any{
		"State":     state,
		"Derived":   d,
		"Abilities": abilities,
	})
}

func renderForms(w io.Writer, d engine.Derived) error {
	return execute(w, formsTemplate, map[string]any{
		"Forms":  d.AllowedTransformations,
		"Active": d.Form.ID,
	})
}

type techniqueLine struct {
	Technique rules.Technique
	Roll      engine.TechniqueRoll
	Usable    bool
}

func renderTechniques(w io.Writer, techniques []rules.Technique, d engine.Derived) error {
	lines := make([]techniqueLine, 0, len(techniques))
	for _, t := range techniques {
		lines = append(lines, techniqueLine{
			Technique: t,
			Roll:      engine.TechniqueMath(t, d),
			Usable:    engine.CanUseTechnique(t, d),
		})
	}
	return execute(w, techniquesTemplate, lines)
}

func renderSlots(w io.Writer, slots []storage.Slot) error {
	return execute(w, slotsTemplate, slots)
}

func execute(w io.Writer, tmpl *template.Template, data any) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return nil
}
