package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles loads custom prompts from external files if file paths
// are specified. Safe to call again after the files change on disk.
func (c *Config) loadPromptsFromFiles() error {
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	// Global prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.CustomPrompts.SystemPrompts, &loadedPrompts.Global.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load global system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.CustomPrompts.UserPrompts, &loadedPrompts.Global.UserPrompts); err != nil {
		return fmt.Errorf("failed to load global user prompts: %w", err)
	}

	// Operation-specific prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.Parse.CustomPrompts.SystemPrompts, &loadedPrompts.Parse.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load parse system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Parse.CustomPrompts.UserPrompts, &loadedPrompts.Parse.UserPrompts); err != nil {
		return fmt.Errorf("failed to load parse user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.SpellCheck.CustomPrompts.SystemPrompts, &loadedPrompts.SpellCheck.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load spellcheck system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.SpellCheck.CustomPrompts.UserPrompts, &loadedPrompts.SpellCheck.UserPrompts); err != nil {
		return fmt.Errorf("failed to load spellcheck user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Questions.CustomPrompts.SystemPrompts, &loadedPrompts.Questions.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load questions system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Questions.CustomPrompts.UserPrompts, &loadedPrompts.Questions.UserPrompts); err != nil {
		return fmt.Errorf("failed to load questions user prompts: %w", err)
	}

	return nil
}

// ReloadPrompts re-reads all configured prompt files. Used by the prompt
// watcher when a file changes on disk.
func (c *Config) ReloadPrompts() error {
	return c.loadPromptsFromFiles()
}

// loadSystemPromptsFromFiles loads system prompts from files if file paths are specified
func (c *Config) loadSystemPromptsFromFiles(prompts *SystemPrompts, target *LoadedSystemPrompts) error {
	if prompts.ParseSectionsFile != "" {
		content, err := c.loadPromptFromFile(prompts.ParseSectionsFile, "system", "parseSections")
		if err != nil {
			return err
		}
		target.ParseSections = content
	}

	if prompts.QuestionsWideFile != "" {
		content, err := c.loadPromptFromFile(prompts.QuestionsWideFile, "system", "questionsWide")
		if err != nil {
			return err
		}
		target.QuestionsWide = content
	}

	if prompts.QuestionsAdhocFile != "" {
		content, err := c.loadPromptFromFile(prompts.QuestionsAdhocFile, "system", "questionsAdhoc")
		if err != nil {
			return err
		}
		target.QuestionsAdhoc = content
	}

	if prompts.SpellCheckFile != "" {
		content, err := c.loadPromptFromFile(prompts.SpellCheckFile, "system", "spellCheck")
		if err != nil {
			return err
		}
		target.SpellCheck = content
	}

	return nil
}

// loadUserPromptsFromFiles loads user prompts from files if file paths are specified
func (c *Config) loadUserPromptsFromFiles(prompts *UserPrompts, target *LoadedUserPrompts) error {
	if prompts.ParseSectionsFile != "" {
		content, err := c.loadPromptFromFile(prompts.ParseSectionsFile, "user", "parseSections")
		if err != nil {
			return err
		}
		target.ParseSections = content
	}

	if prompts.QuestionsWideFile != "" {
		content, err := c.loadPromptFromFile(prompts.QuestionsWideFile, "user", "questionsWide")
		if err != nil {
			return err
		}
		target.QuestionsWide = content
	}

	if prompts.QuestionsAdhocFile != "" {
		content, err := c.loadPromptFromFile(prompts.QuestionsAdhocFile, "user", "questionsAdhoc")
		if err != nil {
			return err
		}
		target.QuestionsAdhoc = content
	}

	if prompts.SpellCheckFile != "" {
		content, err := c.loadPromptFromFile(prompts.SpellCheckFile, "user", "spellCheck")
		if err != nil {
			return err
		}
		target.SpellCheck = content
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	validateSet := func(scope string, sys *SystemPrompts, usr *UserPrompts) {
		validateFile(sys.ParseSectionsFile, scope+" system", "parseSections")
		validateFile(sys.QuestionsWideFile, scope+" system", "questionsWide")
		validateFile(sys.QuestionsAdhocFile, scope+" system", "questionsAdhoc")
		validateFile(sys.SpellCheckFile, scope+" system", "spellCheck")
		validateFile(usr.ParseSectionsFile, scope+" user", "parseSections")
		validateFile(usr.QuestionsWideFile, scope+" user", "questionsWide")
		validateFile(usr.QuestionsAdhocFile, scope+" user", "questionsAdhoc")
		validateFile(usr.SpellCheckFile, scope+" user", "spellCheck")
	}

	validateSet("global", &c.AI.CustomPrompts.SystemPrompts, &c.AI.CustomPrompts.UserPrompts)
	validateSet("parse", &c.AI.Parse.CustomPrompts.SystemPrompts, &c.AI.Parse.CustomPrompts.UserPrompts)
	validateSet("spellcheck", &c.AI.SpellCheck.CustomPrompts.SystemPrompts, &c.AI.SpellCheck.CustomPrompts.UserPrompts)
	validateSet("questions", &c.AI.Questions.CustomPrompts.SystemPrompts, &c.AI.Questions.CustomPrompts.UserPrompts)

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// PromptFiles returns every configured prompt file path, deduplicated.
// Used to seed the prompt watcher.
func (c *Config) PromptFiles() []string {
	seen := make(map[string]bool)
	var files []string

	add := func(paths ...string) {
		for _, p := range paths {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			files = append(files, p)
		}
	}

	addSet := func(sys *SystemPrompts, usr *UserPrompts) {
		add(sys.ParseSectionsFile, sys.QuestionsWideFile, sys.QuestionsAdhocFile, sys.SpellCheckFile)
		add(usr.ParseSectionsFile, usr.QuestionsWideFile, usr.QuestionsAdhocFile, usr.SpellCheckFile)
	}

	addSet(&c.AI.CustomPrompts.SystemPrompts, &c.AI.CustomPrompts.UserPrompts)
	addSet(&c.AI.Parse.CustomPrompts.SystemPrompts, &c.AI.Parse.CustomPrompts.UserPrompts)
	addSet(&c.AI.SpellCheck.CustomPrompts.SystemPrompts, &c.AI.SpellCheck.CustomPrompts.UserPrompts)
	addSet(&c.AI.Questions.CustomPrompts.SystemPrompts, &c.AI.Questions.CustomPrompts.UserPrompts)

	return files
}
