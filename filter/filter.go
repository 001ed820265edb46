// Package filter selects players with expr-lang expressions.
//
// Expressions see the player's fields as variables and a handful of helpers:
//
//	Level >= 50 && containsFold(Name, "bot")
//	HasSkills && skill("hang_gliding") == 0
//	EquipmentCount > 0 && hasItemRarity(4)
//
// contains, startsWith and endsWith are expr operators (lower(Name) contains "bot");
// the *Fold helpers are their case-insensitive function forms.
//
// Equipment and skill variables are only meaningful when the player was fetched with
// the matching webapi.Include flags; see NeedsInclude.
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"github.com/MazeXD/cuwo/webapi"
)

// Filter is a compiled player filter. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
	include    webapi.Include
}

// Compile compiles a filter expression. The expression must evaluate to a bool.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	// Compile against a sample environment so variables and helpers are type checked
	program, err := expr.Compile(expression,
		expr.Env(environment(&webapi.Player{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
		include:    requiredInclude(expression),
	}, nil
}

// Match reports whether player satisfies the filter
func (f *Filter) Match(player *webapi.Player) (bool, error) {
	result, err := expr.Run(f.program, environment(player))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Player:     player.Name,
			Err:        err,
		}
	}

	// expr.AsBool at compile time makes this assertion safe
	return result.(bool), nil
}

// Select returns the players that satisfy the filter, preserving order.
// Players the filter fails to evaluate on are skipped and their errors returned.
func (f *Filter) Select(players []*webapi.Player) ([]*webapi.Player, []error) {
	var (
		matches []*webapi.Player
		errs    []error
	)
	for _, p := range players {
		ok, err := f.Match(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			matches = append(matches, p)
		}
	}
	return matches, errs
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// NeedsInclude returns the player sections the expression refers to
func (f *Filter) NeedsInclude() webapi.Include {
	return f.include
}

// includeVisitor collects the optional player sections referenced by identifiers
type includeVisitor struct {
	include webapi.Include
}

func (v *includeVisitor) Visit(node *ast.Node) {
	ident, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}

	switch ident.Value {
	case "EquipmentCount", "HasEquipment", "hasItemRarity", "maxItemLevel":
		v.include |= webapi.IncludeEquipment
	case "HasSkills", "skill":
		v.include |= webapi.IncludeSkills
	}
}

// requiredInclude walks the syntax tree of an already compiled expression
func requiredInclude(expression string) webapi.Include {
	tree, err := parser.Parse(expression)
	if err != nil {
		return 0
	}

	v := &includeVisitor{}
	ast.Walk(&tree.Node, v)
	return v.include
}

// environment builds the variables and helpers visible to an expression
func environment(p *webapi.Player) map[string]any {
	env := make(map[string]any, 24)

	// String helpers; lower and upper are expr builtins
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWithFold"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWithFold"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["powerLevel"] = webapi.PowerLevel

	// Player helpers
	env["skill"] = func(name string) int {
		if p.Skills == nil {
			return 0
		}
		return p.Skills.Map()[strings.ToLower(name)]
	}
	env["hasItemRarity"] = func(rarity int) bool {
		for _, item := range p.Equipment {
			if item.Rarity >= rarity {
				return true
			}
		}
		return false
	}
	env["maxItemLevel"] = func() int {
		highest := 0
		for _, item := range p.Equipment {
			if item.Level > highest {
				highest = item.Level
			}
		}
		return highest
	}

	// Player properties
	env["Name"] = p.Name
	env["Level"] = p.Level
	env["PowerLevel"] = p.PowerLevel
	env["Class"] = p.ClassType
	env["Specialization"] = p.Specialization
	env["X"] = p.Position.X
	env["Y"] = p.Position.Y
	env["Z"] = p.Position.Z
	env["HasEquipment"] = p.HasEquipment
	env["HasSkills"] = p.HasSkills
	env["EquipmentCount"] = len(p.Equipment)

	return env
}
