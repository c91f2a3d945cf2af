// ABOUTME: Company, department, employee, and attendance commands for the hrms CLI
// ABOUTME: Each resource gets list, get, create, update, and delete subcommands

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/present"
	"github.com/markalston/hrms-console/internal/store"
	"github.com/markalston/hrms-console/internal/validation"
	"github.com/spf13/cobra"
)

// resource describes one record type served by the CLI
type resource[T client.Record] struct {
	use     string
	aliases []string
	layout  present.Layout[T]
	store   func(*store.Registry) *store.Store[T]
	// prepare adjusts a record before it is validated and sent
	prepare func(rt *runtime, item *T)
}

var companyResource = resource[client.Company]{
	use:     "company",
	aliases: []string{"companies"},
	layout:  present.Companies,
	store:   func(r *store.Registry) *store.Store[client.Company] { return r.Companies },
	prepare: func(rt *runtime, c *client.Company) {},
}

var departmentResource = resource[client.Department]{
	use:     "department",
	aliases: []string{"departments", "dept"},
	layout:  present.Departments,
	store:   func(r *store.Registry) *store.Store[client.Department] { return r.Departments },
	prepare: func(rt *runtime, d *client.Department) {
		d.Company = nil
	},
}

var employeeResource = resource[client.Employee]{
	use:     "employee",
	aliases: []string{"employees", "emp"},
	layout:  present.Employees,
	store:   func(r *store.Registry) *store.Store[client.Employee] { return r.Employees },
	prepare: func(rt *runtime, e *client.Employee) {
		e.Company = nil
		e.Department = nil
	},
}

var attendanceResource = resource[client.Attendance]{
	use:     "attendance",
	aliases: []string{"att"},
	layout:  present.Attendance,
	store:   func(r *store.Registry) *store.Store[client.Attendance] { return r.Attendance },
	prepare: func(rt *runtime, a *client.Attendance) {
		a.Company = nil
		a.Employee = nil
		// Attendance is recorded for the logged-in user's company by default
		if a.CompanyID == 0 {
			if u := rt.session.User(); u != nil {
				a.CompanyID = u.CompanyID
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(newResourceCmd(companyResource))
	rootCmd.AddCommand(newResourceCmd(departmentResource))
	rootCmd.AddCommand(newResourceCmd(employeeResource))
	rootCmd.AddCommand(newResourceCmd(attendanceResource))
}

// newResourceCmd builds the command tree for one resource
func newResourceCmd[T client.Record](res resource[T]) *cobra.Command {
	plural := strings.ToLower(res.layout.Plural)
	singular := strings.ToLower(res.layout.Singular)

	parent := &cobra.Command{
		Use:     res.use,
		Aliases: res.aliases,
		Short:   fmt.Sprintf("Manage %s", plural),
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s", plural),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			execute(func(ctx context.Context, rt *runtime) int {
				return runList(ctx, rt, os.Stdout, res)
			})
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: fmt.Sprintf("Show one %s", singular),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			execute(func(ctx context.Context, rt *runtime) int {
				return runGet(ctx, rt, os.Stdout, res, args[0])
			})
		},
	}

	var data, file string
	readInput := func() ([]byte, error) { return readData(data, file, os.Stdin) }

	create := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s from JSON", singular),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			execute(func(ctx context.Context, rt *runtime) int {
				body, err := readInput()
				if err != nil {
					return reportError(os.Stdout, err)
				}
				return runCreate(ctx, rt, os.Stdout, res, body)
			})
		},
	}

	update := &cobra.Command{
		Use:   "update ID",
		Short: fmt.Sprintf("Update a %s; the JSON is merged onto the current record", singular),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			execute(func(ctx context.Context, rt *runtime) int {
				body, err := readInput()
				if err != nil {
					return reportError(os.Stdout, err)
				}
				return runUpdate(ctx, rt, os.Stdout, res, args[0], body)
			})
		},
	}

	for _, c := range []*cobra.Command{create, update} {
		c.Flags().StringVarP(&data, "data", "d", "", "JSON record, or - to read stdin")
		c.Flags().StringVarP(&file, "file", "f", "", "Read the JSON record from a file")
	}

	del := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", singular),
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			execute(func(ctx context.Context, rt *runtime) int {
				return runDelete(ctx, rt, os.Stdout, res, args[0])
			})
		},
	}

	parent.AddCommand(list, get, create, update, del)
	return parent
}

// runList fetches every record and prints them
func runList[T client.Record](ctx context.Context, rt *runtime, w io.Writer, res resource[T]) int {
	if code := requireSession(rt, w); code != 0 {
		return code
	}

	items, err := res.store(rt.stores).FetchAll(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(items))
	} else {
		empty := fmt.Sprintf("No %s found.", strings.ToLower(res.layout.Plural))
		fmt.Fprintln(w, formatTable(res.layout.Headers, res.layout.Rows(items), empty))
	}
	return 0
}

// runGet prints one record
func runGet[T client.Record](ctx context.Context, rt *runtime, w io.Writer, res resource[T], rawID string) int {
	if code := requireSession(rt, w); code != 0 {
		return code
	}
	id, err := parseID(rawID)
	if err != nil {
		return reportError(w, err)
	}

	item, err := res.store(rt.stores).GetByID(ctx, id)
	if err != nil {
		return reportError(w, err)
	}

	printRecord(w, res, *item)
	return 0
}

// runCreate validates the JSON record and creates it
func runCreate[T client.Record](ctx context.Context, rt *runtime, w io.Writer, res resource[T], body []byte) int {
	if code := requireSession(rt, w); code != 0 {
		return code
	}

	var item T
	if err := decodeRecord(body, &item); err != nil {
		return reportError(w, err)
	}
	res.prepare(rt, &item)
	if err := validation.Check(&item); err != nil {
		return reportError(w, err)
	}

	created, err := res.store(rt.stores).Create(ctx, item)
	if err != nil {
		fmt.Fprintln(w, res.layout.Failed("create", ""))
		return reportError(w, err)
	}

	if !IsJSONOutput() {
		fmt.Fprintln(w, res.layout.Created)
	}
	printRecord(w, res, *created)
	return 0
}

// runUpdate merges the JSON fields onto the current record and saves it
func runUpdate[T client.Record](ctx context.Context, rt *runtime, w io.Writer, res resource[T], rawID string, body []byte) int {
	if code := requireSession(rt, w); code != 0 {
		return code
	}
	id, err := parseID(rawID)
	if err != nil {
		return reportError(w, err)
	}

	s := res.store(rt.stores)
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return reportError(w, err)
	}
	item := *current
	if err := decodeRecord(body, &item); err != nil {
		return reportError(w, err)
	}
	res.prepare(rt, &item)
	if err := validation.Check(&item); err != nil {
		return reportError(w, err)
	}

	updated, err := s.Update(ctx, id, item)
	if err != nil {
		fmt.Fprintln(w, res.layout.Failed("update", ""))
		return reportError(w, err)
	}

	if !IsJSONOutput() {
		fmt.Fprintln(w, res.layout.Updated)
	}
	printRecord(w, res, *updated)
	return 0
}

// runDelete removes one record
func runDelete[T client.Record](ctx context.Context, rt *runtime, w io.Writer, res resource[T], rawID string) int {
	if code := requireSession(rt, w); code != 0 {
		return code
	}
	id, err := parseID(rawID)
	if err != nil {
		return reportError(w, err)
	}

	if err := res.store(rt.stores).Delete(ctx, id); err != nil {
		fmt.Fprintln(w, res.layout.Failed("delete", ""))
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]int64{"deleted": id}))
	} else {
		fmt.Fprintln(w, res.layout.Deleted)
	}
	return 0
}

func printRecord[T client.Record](w io.Writer, res resource[T], item T) {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(item))
		return
	}
	fmt.Fprintln(w, formatFields(res.layout.Fields(item)))
}

// formatTable renders rows under headers, or empty when there are none
func formatTable(headers []string, rows [][]string, empty string) string {
	if len(rows) == 0 {
		return empty
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// formatJSON formats any value as indented JSON
func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

// decodeRecord decodes body into item, rejecting unknown fields
func decodeRecord(body []byte, item any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("no record given; use --data or --file")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(item); err != nil {
		return fmt.Errorf("invalid record JSON: %w", err)
	}
	return nil
}

// readData returns the record from --data, --file, or stdin when --data is -
func readData(data, file string, stdin io.Reader) ([]byte, error) {
	switch {
	case data != "" && file != "":
		return nil, fmt.Errorf("use either --data or --file, not both")
	case data == "-":
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return body, nil
	case file != "":
		body, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		return body, nil
	default:
		return []byte(data), nil
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
