package sheet

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/kisheet/internal/platform/errors"
	"github.com/louisbranch/kisheet/internal/sheet/character"
	"github.com/louisbranch/kisheet/internal/sheet/dice"
	"github.com/louisbranch/kisheet/internal/sheet/play"
	"github.com/louisbranch/kisheet/internal/sheet/slots"
	"github.com/louisbranch/kisheet/internal/sheet/store"
)

// stdioPath selects stdin or stdout for import and export.
const stdioPath = "-"

type app struct {
	out     io.Writer
	in      io.Reader
	state   *store.Store
	session *play.Session
	slots   *slots.Service
}

// A negative maxArgs accepts any number of arguments.
type command struct {
	usage   string
	minArgs int
	maxArgs int
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"show":       {usage: "show", run: runShow},
	"forms":      {usage: "forms", run: runForms},
	"techniques": {usage: "techniques", run: runTechniques},
	"roll":       {usage: "roll <NdM>", minArgs: 1, maxArgs: 1, run: runRoll},
	"d":          {usage: "d <sides>", maxArgs: 1, run: runDie},
	"initiative": {usage: "initiative", run: runInitiative},
	"spend-ki":   {usage: "spend-ki [amount]", maxArgs: 1, run: runSpendKi},
	"recover-ki": {usage: "recover-ki", run: runRecoverKi},
	"heal":       {usage: "heal [amount]", maxArgs: 1, run: runHeal},
	"damage":     {usage: "damage [amount]", maxArgs: 1, run: runDamage},
	"transform":  {usage: "transform <form-id>", minArgs: 1, maxArgs: 1, run: runTransform},
	"use":        {usage: "use <technique-id>", minArgs: 1, maxArgs: 1, run: runUse},
	"attack":     {usage: "attack <technique-id>", minArgs: 1, maxArgs: 1, run: runAttack},
	"set":        {usage: "set <path> <value>", minArgs: 2, maxArgs: 2, run: runSet},
	"export":     {usage: "export [file]", maxArgs: 1, run: runExport},
	"import":     {usage: "import <file>", minArgs: 1, maxArgs: 1, run: runImport},
	"reset":      {usage: "reset", run: runReset},
	"slot":       {usage: "slot list|new|save|load|delete|rename", minArgs: 1, maxArgs: -1, run: runSlot},
}

func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeCommandUnknown, "dispatch command", map[string]string{"Command": name})
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return usageError(cmd.usage)
	}
	return cmd.run(ctx, a, args)
}

func (a *app) println(text string) {
	fmt.Fprintln(a.out, text)
}

func usageError(usage string) error {
	return apperrors.WithMetadata(apperrors.CodeCommandUsage, "parse arguments", map[string]string{"Usage": usage})
}

// parseAmount reads an optional numeric argument.
func parseAmount(args []string, fallback float64) (float64, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return 0, apperrors.WrapWithMetadata(
			apperrors.CodeResourceAmountInvalid,
			"parse amount",
			map[string]string{"Amount": args[0]},
			err,
		)
	}
	return amount, nil
}

func runShow(_ context.Context, a *app, _ []string) error {
	return renderSheet(a.out, a.state.Get(), a.session.Derived())
}

func runForms(_ context.Context, a *app, _ []string) error {
	return renderForms(a.out, a.session.Derived())
}

func runTechniques(_ context.Context, a *app, _ []string) error {
	return renderTechniques(a.out, a.session.Catalogs().Techniques, a.session.Derived())
}

func runRoll(_ context.Context, a *app, args []string) error {
	a.println(a.session.Roll(args[0]))
	return nil
}

func runDie(_ context.Context, a *app, args []string) error {
	sides := dice.DefaultSides
	if len(args) == 1 {
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return usageError("d <sides>")
		}
		sides = n
	}
	a.println(a.session.RollDie(sides))
	return nil
}

func runInitiative(_ context.Context, a *app, _ []string) error {
	a.println(a.session.RollInitiative())
	return nil
}

func runSpendKi(ctx context.Context, a *app, args []string) error {
	return a.mutation(args, play.DefaultKiCost, func(amount float64) (string, error) {
		return a.session.SpendKi(ctx, amount)
	})
}

func runRecoverKi(ctx context.Context, a *app, _ []string) error {
	msg, err := a.session.RecoverKi(ctx)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func runHeal(ctx context.Context, a *app, args []string) error {
	return a.mutation(args, play.DefaultHeal, func(amount float64) (string, error) {
		return a.session.Heal(ctx, amount)
	})
}

func runDamage(ctx context.Context, a *app, args []string) error {
	return a.mutation(args, play.DefaultDamage, func(amount float64) (string, error) {
		return a.session.Damage(ctx, amount)
	})
}

func (a *app) mutation(args []string, fallback float64, apply func(float64) (string, error)) error {
	amount, err := parseAmount(args, fallback)
	if err != nil {
		return err
	}
	msg, err := apply(amount)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func runTransform(ctx context.Context, a *app, args []string) error {
	msg, err := a.session.ApplyTransformation(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func runUse(ctx context.Context, a *app, args []string) error {
	msg, err := a.session.UseTechnique(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func runAttack(_ context.Context, a *app, args []string) error {
	msg, err := a.session.RollTechnique(args[0])
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func runSet(ctx context.Context, a *app, args []string) error {
	return a.state.Update(ctx, func(prev character.State) (character.State, error) {
		return character.SetPath(prev, args[0], args[1])
	})
}

func runExport(_ context.Context, a *app, args []string) error {
	data, err := a.state.Export()
	if err != nil {
		return err
	}
	if len(args) == 0 || args[0] == stdioPath {
		_, err := fmt.Fprintln(a.out, string(data))
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	a.println("Exported to " + args[0] + ".")
	return nil
}

func runImport(ctx context.Context, a *app, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == stdioPath && a.in != nil {
		data, err = io.ReadAll(a.in)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	state, err := character.Import(data, args[0])
	if err != nil {
		return err
	}
	if err := a.state.Replace(ctx, state); err != nil {
		return err
	}
	if _, err := a.session.CorrectActiveForm(ctx); err != nil {
		return err
	}
	a.println("Imported " + state.Meta.Name + ".")
	return nil
}

func runReset(ctx context.Context, a *app, _ []string) error {
	if err := a.state.Reset(ctx); err != nil {
		return err
	}
	a.println("Sheet reset to defaults.")
	return nil
}

func runSlot(ctx context.Context, a *app, args []string) error {
	const usage = "slot list | slot new [name] | slot save [id] [name] | slot load <id> | slot delete <id> | slot rename <id> <name>"
	sub, rest := strings.ToLower(args[0]), args[1:]
	arg := func(i int) string {
		if i < len(rest) {
			return rest[i]
		}
		return ""
	}

	switch sub {
	case "list":
		list, err := a.slots.List(ctx)
		if err != nil {
			return err
		}
		return renderSlots(a.out, list)
	case "new":
		slot, err := a.slots.Create(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		a.println(fmt.Sprintf("Created slot %s (%s).", slot.ID, slot.Name))
	case "save":
		slot, err := a.slots.Save(ctx, arg(0), arg(1))
		if err != nil {
			return err
		}
		a.println(fmt.Sprintf("Saved slot %s (%s).", slot.ID, slot.Name))
	case "load":
		if len(rest) != 1 {
			return usageError(usage)
		}
		state, err := a.slots.Load(ctx, rest[0])
		if err != nil {
			return err
		}
		if _, err := a.session.CorrectActiveForm(ctx); err != nil {
			return err
		}
		a.println("Loaded " + state.Meta.Name + ".")
	case "delete":
		if len(rest) != 1 {
			return usageError(usage)
		}
		if err := a.slots.Delete(ctx, rest[0]); err != nil {
			return err
		}
		a.println("Deleted slot " + rest[0] + ".")
	case "rename":
		if len(rest) != 2 {
			return usageError(usage)
		}
		slot, err := a.slots.Rename(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		a.println(fmt.Sprintf("Renamed slot %s to %s.", slot.ID, slot.Name))
	default:
		return usageError(usage)
	}
	return nil
}
