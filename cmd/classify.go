package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mensylisir/ipsprint/ip"
)

// ClassifyResult is what classify prints.
type ClassifyResult struct {
	Address        string            `json:"address"`
	Classification ip.Classification `json:"classification"`
	Mask           string            `json:"mask"`
	Portions       *ip.Portions      `json:"portions,omitempty"`
}

// Classify classifies address and splits it with maskArg, or with the
// default mask of its class when maskArg is empty.
func Classify(address, maskArg string) (ClassifyResult, error) {
	a, err := ip.Parse(address)
	if err != nil {
		return ClassifyResult{}, err
	}
	c := ip.Classify(a)
	mask := c.DefaultMask
	if maskArg != "" {
		if mask, err = ip.ParseMask(maskArg); err != nil {
			return ClassifyResult{}, err
		}
	}
	res := ClassifyResult{Address: a.String(), Classification: c, Mask: mask.String()}
	if p, ok := ip.SplitPortions(a, mask); ok {
		res.Portions = &p
	}
	return res, nil
}

func newClassifyCommand() *cobra.Command {
	var (
		mask   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "classify ADDRESS",
		Short: "Show the class, type, default mask and portions of an IPv4 address",
		Example: `  ipsprint classify 172.16.5.9
  ipsprint classify 192.168.1.100 --mask 255.255.255.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := Classify(args[0], mask)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			key := lipgloss.NewStyle().Bold(true).Width(10)
			lines := []string{
				key.Render("address") + res.Address,
				key.Render("class") + string(res.Classification.Class),
				key.Render("type") + string(res.Classification.Type),
				key.Render("mask") + res.Mask,
			}
			if res.Portions != nil {
				lines = append(lines,
					key.Render("network")+res.Portions.Network,
					key.Render("host")+res.Portions.Host,
				)
			}
			_, err = fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, lines...))
			return err
		},
	}
	cmd.Flags().StringVarP(&mask, "mask", "m", "", "split with this mask instead of the class default (/8, /16, /24)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
