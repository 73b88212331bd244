// Copyright © 2024 The Lithium authors

package command

import (
	"fmt"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/runner"
)

var stdNone = runner.Options{"std": "none"}

// MethodsOptions tune ShowClassMethods.
type MethodsOptions struct {
	// Filter hides methods by keyword. Nil shows everything.
	Filter *classinfo.MethodFilter
	// Paste inserts the call text of a chosen method at the cursor.
	Paste bool
}

// ShowClassMethods prints the methods of the class under the cursor.
func ShowClassMethods(c *Context, o MethodsOptions) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	sym, err := c.classSymbol()
	if err != nil {
		return nil, err
	}
	class := sym.ClassPath()
	lines, err := c.tool(classinfo.MethodsCommand+class, stdNone)
	if err != nil {
		return nil, err
	}
	methods := classinfo.ParseMethods(lines)
	if len(methods) == 0 {
		return nil, fmt.Errorf("no methods have been discovered for %s: %w", class, ErrNothingFound)
	}
	filter := o.Filter
	if filter == nil {
		filter = &classinfo.MethodFilter{}
	}
	r := classinfo.Renderer{}
	if err := r.Methods(c.output(), class, methods, filter); err != nil {
		return nil, err
	}

	res := &Result{}
	if !o.Paste {
		return res, nil
	}
	shown := filter.Apply(methods)
	if c.Choose == nil || len(shown) == 0 {
		return res, nil
	}
	idx, ok := c.Choose("Paste method", shown)
	if !ok || idx < 0 || idx >= len(shown) {
		return res, nil
	}
	call, ok := classinfo.CallText(shown[idx])
	if !ok {
		res.warnf("cannot paste %q", shown[idx])
		return res, nil
	}
	at := c.Selection[0].Start
	res.Edits = append(res.Edits, buffer.Edit{Region: buffer.Region{Start: at, End: at}, NewText: call})
	return res, nil
}

// ShowClassModule prints the modules providing the class under the cursor.
func ShowClassModule(c *Context) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	sym, err := c.classSymbol()
	if err != nil {
		return nil, err
	}
	class := sym.ClassPath()
	lines, err := c.tool(classinfo.ModuleCommand+class, stdNone)
	if err != nil {
		return nil, err
	}
	modules := classinfo.ParseModules(lines)
	if len(modules) == 0 {
		return nil, fmt.Errorf("no module has been discovered for %s: %w", class, ErrNothingFound)
	}
	return &Result{}, classinfo.Renderer{}.Modules(c.output(), class, modules)
}

// ShowClassInfo prints the members of the class under the cursor passing
// filter. A nil filter shows every member.
func ShowClassInfo(c *Context, filter classinfo.LevelFilter) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	sym, err := c.classSymbol()
	if err != nil {
		return nil, err
	}
	class := sym.ClassPath()
	lines, err := c.tool(classinfo.ClassInfoCommand+class, stdNone)
	if err != nil {
		return nil, err
	}
	info, err := classinfo.ParseClassInfo(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", class, err)
	}
	if filter == nil {
		filter = classinfo.NewLevelFilter()
	}
	return &Result{}, classinfo.Renderer{}.ClassInfo(c.output(), info, filter)
}

// ShowClassField prints the value of the constant under the cursor.
func ShowClassField(c *Context) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	sym, err := c.classSymbol()
	if err != nil {
		return nil, err
	}
	field := sym.String()
	lines, err := c.tool(classinfo.FieldCommand+field, stdNone)
	if err != nil {
		return nil, err
	}
	value, ok := classinfo.ParseField(lines)
	if !ok {
		return nil, fmt.Errorf("no field value has been discovered for %s: %w", field, ErrNothingFound)
	}
	return &Result{}, classinfo.Renderer{}.Field(c.output(), field, value)
}
