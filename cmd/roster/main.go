// Command roster prints the built-in dataset, handy when checking what a
// freshly started hub will serve before any provider is registered.
package main

import (
	"fmt"
	"os"
	"sort"

	"d-hub/mock"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	servers := mock.Servers()

	ids := make([]string, 0, len(servers))
	for id := range servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		srv := servers[id]
		header := fmt.Sprintf("  ====== %s (%s) ======", srv.Name, id)
		color.New(color.BgBlack, color.FgGreen).Println(header)
		if srv.Default {
			color.New(color.FgYellow).Println("  default server")
		}
		if srv.Passworded {
			color.New(color.FgRed).Println("  requires authentication")
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"UID", "Username", "Status", "Role Color"})
		table.SetAutoWrapText(false)
		table.SetAutoFormatHeaders(true)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetTablePadding("\t")

		members := mock.Members(id)
		uids := make([]string, 0, len(members))
		for uid := range members {
			uids = append(uids, uid)
		}
		sort.Strings(uids)
		for _, uid := range uids {
			m := members[uid]
			table.Append([]string{m.UID, m.Username, string(m.Status), m.RoleColor})
		}
		table.Render()
		fmt.Println()
	}
}
