// Hornsolve
// Copyright (C) 2024+ the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package scenario

import (
	"fmt"

	"github.com/hornsolve/hornsolve/logic"
)

// Term is the yaml form of a term. A plain scalar is a constructor without any
// arguments. Otherwise it is either {bound: N}, or {app: name, args: [...]}.
// Inference variables and placeholders only exist inside of a solver, so they
// have no yaml form.
type Term struct {
	logic.Term
}

// UnmarshalYAML decodes one of the term forms.
func (obj *Term) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		if name == "" {
			return fmt.Errorf("empty constructor name")
		}
		obj.Term = logic.C(name)
		return nil
	}

	var data struct {
		Bound *int    `yaml:"bound"`
		App   *string `yaml:"app"`
		Args  []*Term `yaml:"args"`
	}
	if err := unmarshal(&data); err != nil {
		return err
	}

	switch {
	case data.Bound != nil && data.App == nil:
		if *data.Bound < 0 {
			return fmt.Errorf("negative bound index: %d", *data.Bound)
		}
		if data.Args != nil {
			return fmt.Errorf("bound variable can't have args")
		}
		obj.Term = logic.B(*data.Bound)
		return nil

	case data.App != nil && data.Bound == nil:
		if *data.App == "" {
			return fmt.Errorf("empty constructor name")
		}
		args, err := terms(data.Args)
		if err != nil {
			return err
		}
		obj.Term = logic.C(*data.App, args...)
		return nil
	}
	return fmt.Errorf("term needs exactly one of: bound, app")
}

// terms unwraps a list of terms. An empty list is nil, like the args of a
// constructor that was built without any.
func terms(list []*Term) ([]logic.Term, error) {
	var result []logic.Term
	for _, x := range list {
		if x == nil {
			return nil, fmt.Errorf("null term")
		}
		result = append(result, x.Term)
	}
	return result, nil
}

// quantifier is the body of the forall and exists goal forms.
type quantifier struct {
	Binders int   `yaml:"binders"`
	Body    *Goal `yaml:"body"`
}

// implies is the body of the implies goal form.
type implies struct {
	Premise    *Clause `yaml:"premise"`
	Conclusion *Goal   `yaml:"conclusion"`
}

// Goal is the yaml form of a goal. It's a map with exactly one of the keys:
//
//	apply:   name, with an optional sibling list of args
//	and:     a non-empty list of goals, nested to the right
//	implies: {premise: clause, conclusion: goal}
//	forall:  {binders: N, body: goal}
//	exists:  {binders: N, body: goal}
type Goal struct {
	logic.Goal
}

// UnmarshalYAML decodes one of the goal forms.
func (obj *Goal) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var data struct {
		Apply   *string     `yaml:"apply"`
		Args    []*Term     `yaml:"args"`
		And     []*Goal     `yaml:"and"`
		Implies *implies    `yaml:"implies"`
		ForAll  *quantifier `yaml:"forall"`
		Exists  *quantifier `yaml:"exists"`
	}
	if err := unmarshal(&data); err != nil {
		return err
	}

	count := 0
	for _, b := range []bool{data.Apply != nil, data.And != nil, data.Implies != nil, data.ForAll != nil, data.Exists != nil} {
		if b {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("goal needs exactly one of: apply, and, implies, forall, exists")
	}
	if data.Args != nil && data.Apply == nil {
		return fmt.Errorf("only apply goals have args")
	}

	switch {
	case data.Apply != nil:
		if *data.Apply == "" {
			return fmt.Errorf("empty apply name")
		}
		args, err := terms(data.Args)
		if err != nil {
			return err
		}
		obj.Goal = logic.NewApply(*data.Apply, args...)

	case data.And != nil:
		if len(data.And) == 0 {
			return fmt.Errorf("empty and")
		}
		goals := []logic.Goal{}
		for _, x := range data.And {
			if x == nil {
				return fmt.Errorf("null goal")
			}
			goals = append(goals, x.Goal)
		}
		obj.Goal = logic.NewAnd(goals...)

	case data.Implies != nil:
		if data.Implies.Premise == nil || data.Implies.Conclusion == nil {
			return fmt.Errorf("implies needs a premise and a conclusion")
		}
		obj.Goal = &logic.Implies{
			Premise:    data.Implies.Premise.Clause,
			Conclusion: data.Implies.Conclusion.Goal,
		}

	case data.ForAll != nil:
		if data.ForAll.Body == nil {
			return fmt.Errorf("forall has no body")
		}
		obj.Goal = &logic.ForAll{
			Binders: data.ForAll.Binders,
			Body:    data.ForAll.Body.Goal,
		}

	case data.Exists != nil:
		if data.Exists.Body == nil {
			return fmt.Errorf("exists has no body")
		}
		obj.Goal = &logic.Exists{
			Binders: data.Exists.Binders,
			Body:    data.Exists.Body.Goal,
		}
	}
	return nil
}

// Clause is the yaml form of a clause: {binders: N, condition: goal,
// conclusion: goal}. The condition is optional, and the conclusion must be an
// apply goal.
type Clause struct {
	*logic.Clause
}

// UnmarshalYAML decodes a clause.
func (obj *Clause) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var data struct {
		Binders    int   `yaml:"binders"`
		Condition  *Goal `yaml:"condition"`
		Conclusion *Goal `yaml:"conclusion"`
	}
	if err := unmarshal(&data); err != nil {
		return err
	}
	if data.Conclusion == nil {
		return fmt.Errorf("clause has no conclusion")
	}
	conclusion, ok := data.Conclusion.Goal.(*logic.Apply)
	if !ok {
		return fmt.Errorf("clause conclusion must be an apply goal")
	}

	var condition logic.Goal
	if data.Condition != nil {
		condition = data.Condition.Goal
	}
	obj.Clause = logic.Rule(data.Binders, condition, conclusion)
	return nil
}
