package cpd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ciTemplates maps a provider to its pipeline file and content.
var ciTemplates = map[string]struct {
	path    string
	content string
}{
	"github": {
		path: ".github/workflows/cpd.yml",
		content: `name: cpd
on: [push, pull_request]
jobs:
  cpd:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25.x'
      - run: go install github.com/cpdkit/cpd@latest
      - run: cpd check --git-tracked --report xml:cpd.xml --report text:cpd.txt
      - uses: actions/upload-artifact@v4
        if: always()
        with:
          name: cpd-report
          path: |
            cpd.xml
            cpd.txt
`,
	},
	"gitlab": {
		path: ".gitlab-ci.yml",
		content: `stages: [check]
cpd:
  stage: check
  image: golang:1.25
  script:
    - go install github.com/cpdkit/cpd@latest
    - cpd check --git-tracked --report xml:cpd.xml --report text:cpd.txt
  artifacts:
    when: always
    paths:
      - cpd.xml
      - cpd.txt
`,
	},
	"bitbucket": {
		path: "bitbucket-pipelines.yml",
		content: `pipelines:
  default:
    - step:
        name: cpd
        image: golang:1.25
        caches:
          - go
        script:
          - go install github.com/cpdkit/cpd@latest
          - cpd check --git-tracked --report xml:cpd.xml --report text:cpd.txt
        artifacts:
          - cpd.xml
          - cpd.txt
`,
	},
	"azure": {
		path: "azure-pipelines.yml",
		content: `trigger:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    go install github.com/cpdkit/cpd@latest
    $(go env GOPATH)/bin/cpd check --git-tracked --report xml:cpd.xml --report text:cpd.txt
  displayName: 'cpd'
- publish: cpd.xml
  artifact: cpd-report
  condition: succeededOrFailed()
`,
	},
}

func init() {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}
	rootCmd.AddCommand(ci)

	var provider, dir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template for your provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := writeCITemplate(dir, provider)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: github | gitlab | bitbucket | azure")
	initCmd.Flags().StringVar(&dir, "dir", ".", "repository root to write the template into")
	if err := initCmd.MarkFlagRequired("provider"); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not mark --provider as required:", err)
	}
	ci.AddCommand(initCmd)
}

func writeCITemplate(dir, provider string) (string, error) {
	tpl, ok := ciTemplates[provider]
	if !ok {
		return "", fmt.Errorf("unknown --provider. Supported: github, gitlab, bitbucket, azure")
	}
	path := filepath.Join(dir, filepath.FromSlash(tpl.path))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(tpl.content), 0644); err != nil {
		return "", err
	}
	return path, nil
}
