// Command gen_models_registry writes models_registry.go for a package of gorm
// models. A struct counts as a model when at least one of its fields carries
// a gorm tag.
//
//	go run ../../tools/gen_models_registry.go <models_dir>
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

const registryFile = "models_registry.go"

func main() {
	// Load .env if available
	_ = godotenv.Load()

	var modelsDir string
	if len(os.Args) >= 2 {
		modelsDir = os.Args[1]
	} else {
		modelsDir = os.Getenv("GORM_MODELS_PATH")
		if modelsDir == "" {
			fmt.Println("Usage: go run gen_models_registry.go <models_dir> OR set GORM_MODELS_PATH environment variable")
			os.Exit(1)
		}
	}

	pkg, models, err := findModels(modelsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	src, err := render(pkg, models)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	outputFile := filepath.Join(modelsDir, registryFile)
	if err := os.WriteFile(outputFile, src, 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s with %d models.\n", outputFile, len(models))
}

// findModels returns the package name and the gorm-tagged structs declared
// in the non-test files of dir, in source order.
func findModels(dir string) (string, []string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, err
	}
	names := make([]string, 0, len(files))
	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == registryFile {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var pkg string
	var models []string
	fset := token.NewFileSet()
	for _, name := range names {
		node, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, 0)
		if err != nil {
			return "", nil, err
		}
		pkg = node.Name.Name
		for _, decl := range node.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if st, ok := typeSpec.Type.(*ast.StructType); ok && hasGormTag(st) {
					models = append(models, typeSpec.Name.Name)
				}
			}
		}
	}
	if pkg == "" {
		return "", nil, fmt.Errorf("no Go files in %s", dir)
	}
	return pkg, models, nil
}

func hasGormTag(st *ast.StructType) bool {
	for _, f := range st.Fields.List {
		if f.Tag != nil && strings.Contains(f.Tag.Value, `gorm:"`) {
			return true
		}
	}
	return false
}

func render(pkg string, models []string) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("// Code generated by tools/gen_models_registry.go; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("// ModelTypeRegistry lists the gorm models this package persists.\n")
	b.WriteString("var ModelTypeRegistry = map[string]interface{}{\n")
	for _, name := range models {
		fmt.Fprintf(&b, "\t%q: &%s{},\n", name, name)
	}
	b.WriteString("}\n\n")
	b.WriteString("// Registry exposes ModelTypeRegistry to the schema tooling.\n")
	b.WriteString("type Registry struct{}\n\n")
	b.WriteString("func (Registry) GetModels() map[string]interface{} {\n\treturn ModelTypeRegistry\n}\n")
	return format.Source(b.Bytes())
}
