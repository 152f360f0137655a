package opencode

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PluginFileName is the file opencode loads from its plugin directory
const PluginFileName = "chime.js"

const pluginTemplate = `// Generated by chime setup. Re-run "chime setup --force" after changing sounds.
// Forwards opencode lifecycle events to chime, which plays a sound for them.
const CHIME = %s;
const EVENTS = new Set(%s);

export const ChimePlugin = async ({ $ }) => {
  return {
    event: async ({ event }) => {
      if (!EVENTS.has(event.type)) return;
      const payload = new Response(JSON.stringify(event));
      await $` + "`${CHIME} handle < ${payload}`" + `.quiet().nothrow();
    },
  };
};
`

// PluginSource renders the opencode plugin that pipes each event of the given types
// as JSON into "<binary> handle". Other events never leave the host process.
func PluginSource(binary string, eventTypes []string) (string, error) {
	binaryJSON, err := json.Marshal(binary)
	if err != nil {
		return "", fmt.Errorf("failed to encode binary path: %w", err)
	}

	types := append([]string{}, eventTypes...)
	sort.Strings(types)
	typesJSON, err := json.Marshal(types)
	if err != nil {
		return "", fmt.Errorf("failed to encode event types: %w", err)
	}

	return fmt.Sprintf(pluginTemplate, binaryJSON, typesJSON), nil
}
