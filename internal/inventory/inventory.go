// Package inventory parses Ansible-style INI inventory files into the host
// list the poller works against.
package inventory

import (
	"bufio"
	"os"
	"strings"

	"github.com/svcdash/svcdash/internal/errors"
)

// UngroupedLabel is the group assigned to hosts listed before any [section].
const UngroupedLabel = "ungrouped"

// Host is one remote machine from the inventory.
type Host struct {
	// Address is the network-resolvable identifier (hostname, IP, or SSH
	// config alias). Unique key within a run.
	Address string

	// Group is the inventory section the host appeared under. Informational;
	// it only constrains which services are checked when a service spec
	// declares groups.
	Group string
}

// Load reads an INI inventory file and returns hosts in file order.
//
// Parsing rules follow the common Ansible layout: blank lines and lines
// starting with '#' or ';' are skipped, "[name]" starts a group, and only the
// first whitespace-separated token of a host line is taken (inline host vars
// are ignored).
func Load(path string) ([]Host, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInventory,
			"Can't read inventory file at "+path,
			"Check the path, or point --inventory at your Ansible hosts file")
	}
	defer f.Close()

	var hosts []Host
	seen := make(map[string]bool)
	group := UngroupedLabel

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if end := strings.Index(line, "]"); end > 1 {
				group = line[1:end]
			}
			continue
		}

		address := strings.Fields(line)[0]
		if seen[address] {
			continue
		}
		seen[address] = true
		hosts = append(hosts, Host{Address: address, Group: group})
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInventory,
			"Failed while reading inventory file "+path,
			"Check the file is a readable text file")
	}

	if len(hosts) == 0 {
		return nil, errors.New(errors.ErrInventory,
			"Inventory file "+path+" contains no hosts",
			"Add at least one host line, e.g.\n    [web]\n    web-1.example.com")
	}

	return hosts, nil
}

// Addresses returns the address of every host, preserving inventory order.
func Addresses(hosts []Host) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, h.Address)
	}
	return out
}
