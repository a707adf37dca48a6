// Package acl models DokuWiki user roles and their page access rules, so
// the export can tag each item with the usergroups allowed to see it.
package acl

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// rule is a single ACL line applying to a role: a page path pattern and the
// permission it grants. Permission 0 means no access.
type rule struct {
	pattern    glob.Glob
	permission int
}

// Role is a DokuWiki user role. It carries the salted usergroup hash the
// search vendor expects and the access rules that apply to the role.
type Role struct {
	// Name is the role name as it appears in the user table.
	Name string

	// Hash is the lowercase hex SHA-512 of name+salt, used as the exported
	// usergroup identifier.
	Hash string

	rules []rule
}

// NewRole builds a role from the lines of DokuWiki's acl.auth.php file.
// Lines that do not parse as ACL rules, and rules for other roles, are
// skipped.
func NewRole(name, salt string, aclLines []string) *Role {
	r := &Role{
		Name: name,
		Hash: usergroupHash(name, salt),
	}

	for _, line := range aclLines {
		parts := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(parts) != 3 {
			continue
		}

		pattern, roleName, permField := parts[0], parts[1], parts[2]

		// Role names are prefixed with '@' in the ACL file.
		roleName = strings.TrimPrefix(roleName, "@")
		if roleName != name && roleName != "ALL" {
			continue
		}

		permission, err := strconv.Atoi(strings.TrimSpace(permField))
		if err != nil {
			continue
		}

		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}

		r.rules = append(r.rules, rule{pattern: g, permission: permission})
	}

	return r
}

// CanRead reports whether users with this role can read the page at the
// given page path. Rules are applied in file order and the last matching
// rule wins; pages with no matching rule are readable.
func (r *Role) CanRead(pagePath string) bool {
	permission := 1
	for _, ru := range r.rules {
		if ru.pattern.Match(pagePath) {
			permission = ru.permission
		}
	}
	return permission > 0
}

// usergroupHash derives the exported usergroup identifier for a role.
func usergroupHash(name, salt string) string {
	sum := sha512.Sum512([]byte(name + salt))
	return hex.EncodeToString(sum[:])
}

// ParseRoleNames extracts the set of role names from the lines of DokuWiki's
// users.auth.php file. Each user line is colon-separated with the user's
// comma-separated groups in the last field. The result is sorted so that
// exports are deterministic.
func ParseRoleNames(userLines []string) []string {
	seen := map[string]bool{}
	for _, line := range userLines {
		parts := strings.Split(strings.TrimRight(line, "\r\n"), ":")
		if len(parts) != 5 {
			continue
		}
		for _, role := range strings.Split(parts[4], ",") {
			role = strings.TrimSpace(role)
			if role != "" {
				seen[role] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DiscoverRoles reads the DokuWiki user and ACL configuration from confDir
// and builds a Role for every role found in the user table. A wiki without
// user or ACL configuration yields no roles.
func DiscoverRoles(confDir, salt string) ([]*Role, error) {
	userLines, err := readLines(filepath.Join(confDir, "users.auth.php"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading user table: %w", err)
	}

	aclLines, err := readLines(filepath.Join(confDir, "acl.auth.php"))
	if err != nil {
		if os.IsNotExist(err) {
			aclLines = nil
		} else {
			return nil, fmt.Errorf("reading ACL rules: %w", err)
		}
	}

	var roles []*Role
	for _, name := range ParseRoleNames(userLines) {
		roles = append(roles, NewRole(name, salt, aclLines))
	}
	return roles, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}
