package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//
// Settings come from basic5.yaml in the current directory, falling
// back to ~/.basic5.yaml; a missing file just means defaults.  A
// malformed file is reported and ignored rather than refusing to
// start
//

func defaultSettings() settings {

	return settings{
		Prompt:       myPrompt,
		MaxRecursion: fnRecursionDefault,
		TempMemory:   maxTempMemoryDefault,
		MemorySize:   memorySizeDefault,
	}
}

func loadSettings() settings {

	cfg := defaultSettings()

	paths := []string{settingsFilename}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+settingsFilename))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			cfg = defaultSettings()
		}

		break
	}

	if cfg.Prompt == "" {
		cfg.Prompt = myPrompt
	}

	if cfg.MaxRecursion < 1 {
		cfg.MaxRecursion = fnRecursionDefault
	}

	if cfg.TempMemory < 64*1024 {
		cfg.TempMemory = 64 * 1024
	}

	if cfg.MemorySize < 4096 {
		cfg.MemorySize = 4096
	}

	return cfg
}

func showSettings(cfg settings) {

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Print(string(data))
}
