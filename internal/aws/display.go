package aws

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"cloudfacade/internal/models"
)

var (
	headerColor = color.New(color.FgCyan)
	alertColor  = color.New(color.FgRed)
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func truncationNotice(w io.Writer, truncated bool, token string) {
	if !truncated {
		return
	}
	alertColor.Fprintf(w, "Listing truncated, resume with --page-token %s\n", token)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

// DisplayRoles prints roles. Without flags only the names are listed.
func DisplayRoles(w io.Writer, res ListResult[models.Role], showTrusted, showLastActivity bool) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Roles")
		return
	}

	// no flags? show only roles
	if !showTrusted && !showLastActivity {
		fmt.Fprintln(w, "Roles:")
		for _, name := range res.Names {
			fmt.Fprintln(w, "-", name)
		}
		truncationNotice(w, res.Truncated, res.NextToken)
		return
	}

	for i, role := range res.Records {
		DisplayRole(w, i+1, role, showTrusted, showLastActivity)
	}
	truncationNotice(w, res.Truncated, res.NextToken)
}

// DisplayRole prints one role in detail
func DisplayRole(w io.Writer, n int, role models.Role, showTrusted, showLastActivity bool) {
	headerColor.Fprintf(w, "Role %d: %s\n", n, role.RoleName)
	fmt.Fprintf(w, "ARN: %s\n", role.Arn)
	fmt.Fprintf(w, "Path: %s\n", role.Path)
	if role.IsServiceRole() {
		fmt.Fprintln(w, "Service Role: yes")
	}
	fmt.Fprintf(w, "Creation Time: %s\n", formatTime(role.CreateDate))

	if showLastActivity {
		if role.LastUsed != nil {
			fmt.Fprintf(w, "Last Activity: %s (%s)\n", formatTime(role.LastUsed.Date), humanize.Time(role.LastUsed.Date))
		} else {
			fmt.Fprintln(w, "Last Activity: Never")
		}
	}

	if showTrusted && role.TrustPolicy != "" {
		fmt.Fprintln(w, "Trusted Policy:")
		fmt.Fprintf(w, "```json\n%s\n```\n", role.TrustPolicy)
	}
	fmt.Fprintln(w)
}

// DisplayAttachedPolicies prints the managed policies attached to role
func DisplayAttachedPolicies(w io.Writer, role string, policies []models.AttachedPolicy) {
	alertColor.Fprintf(w, "Policies attached to %s:\n", role)
	if len(policies) == 0 {
		fmt.Fprintln(w, "None")
		return
	}
	for _, p := range policies {
		fmt.Fprintf(w, "  - %s ==> (Managed, %s)\n", p.Name, p.Arn)
	}
}

// DisplayPolicies prints a policy listing as a table
func DisplayPolicies(w io.Writer, res ListResult[models.Policy]) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Policies")
		return
	}

	table := newTable(w, "Name", "ARN", "Attachments", "Updated")
	for _, p := range res.Records {
		table.Append([]string{p.Name, p.Arn, strconv.Itoa(int(p.AttachmentCount)), formatTime(p.UpdateDate)})
	}
	table.Render()
	truncationNotice(w, res.Truncated, res.NextToken)
}

// DisplayPolicy prints one policy with its default version document
func DisplayPolicy(w io.Writer, p models.Policy) {
	headerColor.Fprintf(w, "Policy: %s\n", p.Name)
	fmt.Fprintf(w, "ARN: %s\n", p.Arn)
	fmt.Fprintf(w, "Path: %s\n", p.Path)
	fmt.Fprintf(w, "Default Version: %s\n", p.DefaultVersionId)
	fmt.Fprintf(w, "Attachments: %d\n", p.AttachmentCount)
	if p.Document != "" {
		fmt.Fprintf(w, "```json\n%s\n```\n", p.Document)
	}
}

// DisplayBuckets prints a bucket listing as a table
func DisplayBuckets(w io.Writer, res ListResult[models.Bucket]) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Buckets")
		return
	}

	table := newTable(w, "Name", "Region", "Created")
	for _, b := range res.Records {
		table.Append([]string{b.Name, b.Region, formatTime(b.CreationDate)})
	}
	table.Render()
	truncationNotice(w, res.Truncated, res.NextToken)
}

// DisplayObjects prints an object listing with human readable sizes
func DisplayObjects(w io.Writer, res ListResult[models.Object]) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Objects")
		return
	}

	var total uint64
	table := newTable(w, "Key", "Size", "Storage Class", "Last Modified")
	for _, o := range res.Records {
		total += uint64(o.Size)
		table.Append([]string{o.Key, humanize.Bytes(uint64(o.Size)), o.StorageClass, humanize.Time(o.LastModified)})
	}
	table.Render()
	fmt.Fprintf(w, "%d objects, %s\n", len(res.Records), humanize.Bytes(total))
}

// DisplayTables prints a table listing
func DisplayTables(w io.Writer, res ListResult[models.Table]) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Tables")
		return
	}

	fmt.Fprintln(w, "Tables:")
	for _, name := range res.Names {
		fmt.Fprintln(w, "-", name)
	}
	truncationNotice(w, res.Truncated, res.NextToken)
}

// DisplayTable prints one table description
func DisplayTable(w io.Writer, t models.Table) {
	headerColor.Fprintf(w, "Table: %s\n", t.Name)
	fmt.Fprintf(w, "ARN: %s\n", t.Arn)
	fmt.Fprintf(w, "Status: %s\n", t.Status)
	if t.BillingMode != "" {
		fmt.Fprintf(w, "Billing Mode: %s\n", t.BillingMode)
	}
	fmt.Fprintf(w, "Items: %s (%s)\n", humanize.Comma(t.ItemCount), humanize.Bytes(uint64(t.SizeBytes)))

	keys := make([]string, 0, len(t.KeySchema))
	for _, k := range t.KeySchema {
		keys = append(keys, fmt.Sprintf("%s %s (%s)", k.KeyType, k.AttributeName, k.AttributeType))
	}
	fmt.Fprintf(w, "Key Schema: %s\n", strings.Join(keys, ", "))
}

// DisplayThings prints a thing listing as a table
func DisplayThings(w io.Writer, res ListResult[models.Thing]) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Things")
		return
	}

	table := newTable(w, "Name", "Type", "ARN")
	for _, t := range res.Records {
		table.Append([]string{t.Name, t.ThingType, t.Arn})
	}
	table.Render()
	truncationNotice(w, res.Truncated, res.NextToken)
}

// DisplayThingTypes prints a thing type listing as a table
func DisplayThingTypes(w io.Writer, res ListResult[models.ThingType]) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Thing Types")
		return
	}

	table := newTable(w, "Name", "Description", "Deprecated", "Created")
	for _, t := range res.Records {
		deprecated := "no"
		if t.Deprecated {
			deprecated = "yes"
			if t.DeprecationDate != nil {
				deprecated = humanize.Time(*t.DeprecationDate)
			}
		}
		table.Append([]string{t.Name, t.Description, deprecated, formatTime(t.CreationDate)})
	}
	table.Render()
	truncationNotice(w, res.Truncated, res.NextToken)
}

// DisplayFunctions prints a function listing as a table
func DisplayFunctions(w io.Writer, res ListResult[models.Function]) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Functions")
		return
	}

	table := newTable(w, "Name", "Runtime", "Memory", "Code Size", "Last Modified")
	for _, fn := range res.Records {
		table.Append([]string{
			fn.Name,
			fn.Runtime,
			fmt.Sprintf("%d MB", fn.MemorySize),
			humanize.Bytes(uint64(fn.CodeSize)),
			fn.LastModified,
		})
	}
	table.Render()
}

// DisplayFunction prints one function's details
func DisplayFunction(w io.Writer, d models.FunctionDetails) {
	fn := d.Configuration
	headerColor.Fprintf(w, "Function: %s\n", fn.Name)
	fmt.Fprintf(w, "ARN: %s\n", fn.Arn)
	fmt.Fprintf(w, "Runtime: %s\n", fn.Runtime)
	fmt.Fprintf(w, "Handler: %s\n", fn.Handler)
	fmt.Fprintf(w, "Role: %s\n", fn.Role)
	fmt.Fprintf(w, "Timeout: %ds\n", fn.Timeout)
	if len(d.Tags) > 0 {
		fmt.Fprintln(w, "Tags:")
		for _, k := range sortedKeys(d.Tags) {
			fmt.Fprintf(w, "  - %s = %s\n", k, d.Tags[k])
		}
	}
}

// DisplayInstances prints an instance listing as a table
func DisplayInstances(w io.Writer, res ListResult[models.Instance]) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "No Instances")
		return
	}

	table := newTable(w, "Name", "ID", "Type", "State", "Private IP", "Public IP", "Launched")
	for _, i := range res.Records {
		launched := "-"
		if !i.LaunchTime.IsZero() {
			launched = humanize.Time(i.LaunchTime)
		}
		table.Append([]string{i.GetName(), i.InstanceId, i.InstanceType, i.State, i.PrivateIP, i.PublicIP, launched})
	}
	table.Render()
	truncationNotice(w, res.Truncated, res.NextToken)
}
