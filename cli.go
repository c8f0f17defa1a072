package doguda

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/spf13/cobra"
)

// CLI builds a cobra command tree exposing every registered command as a
// subcommand. Required input fields become positional arguments in
// declaration order and defaulted fields become flags; provider-satisfied
// parameters are stripped from the visible signature entirely.
//
// Structured results print as indented JSON, scalar results print directly.
// A handler failure propagates as the command's error so the process exits
// non-zero.
func (a *App) CLI() *cobra.Command {
	root := &cobra.Command{
		Use:          a.name,
		Short:        fmt.Sprintf("%s commands", a.name),
		SilenceUsage: true,
	}
	for _, name := range a.Commands() {
		root.AddCommand(a.cliCommand(a.commands[name]))
	}
	return root
}

func (a *App) cliCommand(cmd *command) *cobra.Command {
	var positional []param
	var flagged []param
	for _, p := range cmd.params {
		if a.providedByTable(p.paramType) {
			continue
		}
		if p.hasDefault {
			flagged = append(flagged, p)
		} else {
			positional = append(positional, p)
		}
	}

	use := cmd.name
	for _, p := range positional {
		use += fmt.Sprintf(" <%s>", p.name)
	}

	getters := map[string]func() (any, error){}

	cc := &cobra.Command{
		Use:   use,
		Short: cmd.doc,
		Args:  cobra.ExactArgs(len(positional)),
		RunE: func(c *cobra.Command, args []string) error {
			supplied := map[string]any{}
			for i, p := range positional {
				v, err := coerceString(args[i], p.paramType)
				if err != nil {
					return fmt.Errorf("argument %q: %w", p.name, err)
				}
				supplied[p.name] = v.Interface()
			}
			for _, p := range flagged {
				if !c.Flags().Changed(p.name) {
					continue
				}
				v, err := getters[p.name]()
				if err != nil {
					return fmt.Errorf("flag --%s: %w", p.name, err)
				}
				supplied[p.name] = v
			}

			result, err := a.Invoke(c.Context(), cmd.name, supplied)
			if err != nil {
				return err
			}
			return renderResult(c.OutOrStdout(), result)
		},
	}

	for _, p := range flagged {
		flags := cc.Flags()
		switch p.paramType.Kind() {
		case reflect.Bool:
			ptr := flags.Bool(p.name, p.defValue.Bool(), p.doc)
			getters[p.name] = func() (any, error) {
				return coerceInterface(*ptr, p.paramType)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			ptr := flags.Int64(p.name, p.defValue.Int(), p.doc)
			getters[p.name] = func() (any, error) {
				return coerceInterface(*ptr, p.paramType)
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			ptr := flags.Uint64(p.name, p.defValue.Uint(), p.doc)
			getters[p.name] = func() (any, error) {
				return coerceInterface(*ptr, p.paramType)
			}
		case reflect.Float32, reflect.Float64:
			ptr := flags.Float64(p.name, p.defValue.Float(), p.doc)
			getters[p.name] = func() (any, error) {
				return coerceInterface(*ptr, p.paramType)
			}
		case reflect.String:
			ptr := flags.String(p.name, p.defValue.String(), p.doc)
			getters[p.name] = func() (any, error) {
				return coerceInterface(*ptr, p.paramType)
			}
		default:
			// Compound defaults are rendered and re-parsed as JSON literals.
			def, _ := json.Marshal(p.defValue.Interface())
			ptr := flags.String(p.name, string(def), p.doc)
			getters[p.name] = func() (any, error) {
				v, err := coerceString(*ptr, p.paramType)
				if err != nil {
					return nil, err
				}
				return v.Interface(), nil
			}
		}
	}

	return cc
}

// coerceInterface narrows a flag's parsed value back to the declared
// parameter type.
func coerceInterface(raw any, t reflect.Type) (any, error) {
	v, err := coerceValue(raw, t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// renderResult writes an invocation result the way a terminal user expects:
// objects, maps and slices as two-space indented JSON, scalars as plain text,
// nil as nothing at all.
func renderResult(w io.Writer, result any) error {
	if result == nil {
		return nil
	}

	v := reflect.ValueOf(result)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		_, err := fmt.Fprintln(w, result)
		return err
	}
}
