// Package agents maps logical agent identifiers to the destination roots
// skills are installed into. The agent set is a closed enumeration with an
// exhaustive table of roots and post-install guidance, rather than an
// open-ended string registry.
package agents

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillctl/skillctl/pkg/config"
)

// Agent identifies a consumer application with its own skills directory.
type Agent string

// Known agents.
const (
	Claude   Agent = "claude"
	Codex    Agent = "codex"
	Cursor   Agent = "cursor"
	Windsurf Agent = "windsurf"
	VSCode   Agent = "vscode"
	Copilot  Agent = "copilot"
	Project  Agent = "project"
)

// Primary is the agent used when no selection or configuration applies.
const Primary = Claude

// agentRoot describes where an agent's skills directory lives. Home-scoped
// roots are relative to the user's home directory, the rest are relative to
// the working directory of the invoking process.
type agentRoot struct {
	dir        string
	homeScoped bool
	guidance   string
}

// Copilot and VSCode intentionally share one root (aliasing).
var roots = map[Agent]agentRoot{
	Claude:   {dir: filepath.Join(".claude", "skills"), homeScoped: true, guidance: "Restart Claude Code or start a new session to pick up the skill."},
	Codex:    {dir: filepath.Join(".codex", "skills"), homeScoped: true, guidance: "Restart Codex to pick up the skill."},
	Cursor:   {dir: filepath.Join(".cursor", "skills"), guidance: "Reload the Cursor window to pick up the skill."},
	Windsurf: {dir: filepath.Join(".windsurf", "skills"), guidance: "Reload the Windsurf window to pick up the skill."},
	VSCode:   {dir: filepath.Join(".vscode", "skills"), guidance: "Reload the VS Code window to pick up the skill."},
	Copilot:  {dir: filepath.Join(".vscode", "skills"), guidance: "Reload the VS Code window to pick up the skill."},
	Project:  {dir: "skills", guidance: "The skill is available in the project skills directory."},
}

// order is the display and resolution order for All.
var order = []Agent{Claude, Codex, Cursor, Windsurf, VSCode, Copilot, Project}

// All returns every known agent in stable order.
func All() []Agent {
	out := make([]Agent, len(order))
	copy(out, order)
	return out
}

// Parse returns the agent for key, reporting whether key is known.
func Parse(key string) (Agent, bool) {
	a := Agent(strings.ToLower(strings.TrimSpace(key)))
	_, ok := roots[a]
	return a, ok
}

// SkillsDir returns the destination root for the agent's skills.
func SkillsDir(agent Agent) (string, error) {
	root, ok := roots[agent]
	if !ok {
		return "", errors.Errorf("unknown agent %q", agent)
	}
	if root.homeScoped {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get user home directory")
		}
		return filepath.Join(homeDir, root.dir), nil
	}
	return root.dir, nil
}

// Guidance returns the post-install hint for the agent.
func Guidance(agent Agent) string {
	return roots[agent].guidance
}

// Selection captures the caller's agent flags. Zero value means "use the
// configured defaults".
type Selection struct {
	Agent  string // single-agent flag
	Agents string // comma-separated multi-agent flag
	All    bool   // all known agents
}

// Resolve maps a selection and configuration to a non-empty, order-preserving
// deduplicated list of agents. Unknown tokens in a multi-agent list are
// dropped; an unknown single-agent flag falls back to the primary agent.
func Resolve(sel Selection, cfg *config.Config) []Agent {
	switch {
	case sel.All:
		return All()
	case sel.Agents != "":
		var out []Agent
		for _, token := range strings.Split(sel.Agents, ",") {
			if agent, ok := Parse(token); ok {
				out = append(out, agent)
			}
		}
		out = dedupe(out)
		if len(out) == 0 {
			return []Agent{Primary}
		}
		return out
	case sel.Agent != "":
		if agent, ok := Parse(sel.Agent); ok {
			return []Agent{agent}
		}
		return []Agent{Primary}
	}

	if cfg != nil {
		if len(cfg.Agents) > 0 {
			var out []Agent
			for _, key := range cfg.Agents {
				if agent, ok := Parse(key); ok {
					out = append(out, agent)
				}
			}
			if out = dedupe(out); len(out) > 0 {
				return out
			}
		}
		if agent, ok := Parse(cfg.DefaultAgent); ok {
			return []Agent{agent}
		}
	}

	return []Agent{Primary}
}

func dedupe(in []Agent) []Agent {
	seen := make(map[Agent]bool, len(in))
	var out []Agent
	for _, a := range in {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}
