package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var builtinMaps = []string{
	`{"version":3,"file":"a.js","sources":["a.src"],"names":[],"mappings":"AAAA"}`,
	`{"version":3,"file":"a.js","sources":["a.src","b.src"],"names":["x"],"mappings":"AAAA,EAAE;AACA,ECAAA"}`,
	`{"version":3,"sourceRoot":"src/","sources":["a.ts"],"sourcesContent":["let a;"],"names":[],"mappings":";;AAEA"}`,
	`{"version":3,"sources":["..\\lib\\c.ts"],"names":[],"mappings":"AAAA,SAAS"}`,
	`{"version":3,"sources":[],"names":[],"mappings":"A,C;;E"}`,
	`{"version":2,"sources":[],"mappings":""}`,
	`{"version":3,"sources":["a"],"mappings":"AAA"}`,
	`{}`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinMaps {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "maps")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.map файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".map" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
