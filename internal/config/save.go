package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/modmap/internal/log"
)

// SaveNamespaces replaces the namespaces list in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveNamespaces(configPath string, list []NamespaceConfig) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: config path is user-controlled
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := setKey(&doc, "namespaces", buildNamespacesNode(list)); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Saved namespaces", "path", configPath, "count", len(list))
	return nil
}

// setKey sets key on the document's root mapping, creating the document
// when it is empty.
func setKey(doc *yaml.Node, key string, value *yaml.Node) error {
	if doc.Kind == 0 {
		*doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fmt.Errorf("config root is not a YAML document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = value
			return nil
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
	return nil
}

// buildNamespacesNode creates a yaml.Node representing the namespaces array.
func buildNamespacesNode(list []NamespaceConfig) *yaml.Node {
	node := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Content: make([]*yaml.Node, 0, len(list)),
	}

	for _, ns := range list {
		nsNode := &yaml.Node{Kind: yaml.MappingNode}
		nsNode.Content = append(nsNode.Content,
			strScalar("name"), strScalar(ns.Name),
			strScalar("path"), strScalar(ns.Path),
		)

		// Only include base_url if set
		if ns.BaseURL != "" {
			nsNode.Content = append(nsNode.Content, strScalar("base_url"), strScalar(ns.BaseURL))
		}

		node.Content = append(node.Content, nsNode)
	}

	return node
}

// strScalar tags value as a string so the encoder quotes anything that would
// otherwise read back as a number, bool or null (1.10, true, null, ~).
func strScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// writeAtomic writes to a temp file in the target directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".modmap.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
