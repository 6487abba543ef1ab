package validator

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/injector/internal/annotations"
	"github.com/toyz/injector/internal/errors"
	"github.com/toyz/injector/internal/models"
)

const pkgPath = "example.com/app/music"

var single = annotations.Marker{Kind: annotations.SingleMarker, Raw: "//inject::single"}

func named(name string) models.TypeRef {
	return models.Named(pkgPath, "music", name)
}

func class(name string, params ...models.TypeRef) *models.ClassDecl {
	ctorParams := make([]models.Param, len(params))
	for i, p := range params {
		ctorParams[i] = models.Param{Name: "p", Type: p}
	}
	return &models.ClassDecl{
		DeclBase: models.DeclBase{
			PkgPath:  pkgPath,
			PkgName:  "music",
			Name:     name,
			Marks:    []annotations.Marker{single},
			Complete: true,
			Loc:      errors.SourceLocation{File: "music.go", Line: 10},
		},
		Exported: true,
		Constructor: &models.Constructor{
			Name:     "New" + name,
			Exported: true,
			Params:   ctorParams,
			Results:  []models.TypeRef{models.PointerTo(named(name))},
		},
	}
}

func configReason(t *testing.T, diag errors.InjectorError) string {
	t.Helper()
	var cfgErr *errors.ConfigurationError
	require.True(t, stderrors.As(diag, &cfgErr), "expected ConfigurationError, got %T", diag)
	return cfgErr.Reason
}

func TestValidate_ReadyAndDeferred(t *testing.T) {
	foo := class("Foo", models.PointerTo(named("Bar")))
	baz := class("Baz")
	pending := class("Pending", models.PointerTo(models.Invalid("Missing")))
	unresolvedType := class("Later")
	unresolvedType.Complete = false

	result := Validate([]models.Declaration{foo, pending, baz, unresolvedType})

	assert.Equal(t, []*models.ClassDecl{foo, baz}, result.Ready)
	assert.Equal(t, []models.Declaration{pending, unresolvedType}, result.Deferred)
	assert.Empty(t, result.Diagnostics)
}

func TestValidate_ValueResultIsAccepted(t *testing.T) {
	decl := class("Config")
	decl.Constructor.Results = []models.TypeRef{named("Config")}

	result := Validate([]models.Declaration{decl})
	assert.Len(t, result.Ready, 1)
}

func TestValidate_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		decl   func() models.Declaration
		reason string
	}{
		{
			name: "no constructor",
			decl: func() models.Declaration {
				d := class("Lonely")
				d.Constructor = nil
				return d
			},
			reason: ReasonNoConstructor,
		},
		{
			name: "function",
			decl: func() models.Declaration {
				return &models.FunctionDecl{DeclBase: models.DeclBase{
					PkgPath: pkgPath, Name: "NewThing", Marks: []annotations.Marker{single}, Complete: true,
				}}
			},
			reason: ReasonNotAClass,
		},
		{
			name: "interface",
			decl: func() models.Declaration {
				return &models.OtherDecl{Kind: "interface", DeclBase: models.DeclBase{
					PkgPath: pkgPath, Name: "Player", Marks: []annotations.Marker{single}, Complete: true,
				}}
			},
			reason: ReasonNotAClass,
		},
		{
			name: "unresolved function is still not a class",
			decl: func() models.Declaration {
				return &models.FunctionDecl{DeclBase: models.DeclBase{
					PkgPath: pkgPath, Name: "Later", Marks: []annotations.Marker{single},
				}}
			},
			reason: ReasonNotAClass,
		},
		{
			name: "unexported type",
			decl: func() models.Declaration {
				d := class("hidden")
				d.Exported = false
				return d
			},
			reason: ReasonUnexported,
		},
		{
			name: "unexported constructor",
			decl: func() models.Declaration {
				d := class("Foo")
				d.Constructor.Name = "newFoo"
				d.Constructor.Exported = false
				return d
			},
			reason: ReasonUnexported,
		},
		{
			name: "generic",
			decl: func() models.Declaration {
				d := class("Box")
				d.Generic = true
				return d
			},
			reason: ReasonGeneric,
		},
		{
			name: "constructor returns error too",
			decl: func() models.Declaration {
				d := class("Foo")
				d.Constructor.Results = append(d.Constructor.Results, models.Named("", "", "error"))
				return d
			},
			reason: ReasonBadResult,
		},
		{
			name: "constructor returns another type",
			decl: func() models.Declaration {
				d := class("Foo")
				d.Constructor.Results = []models.TypeRef{models.PointerTo(named("Bar"))}
				return d
			},
			reason: ReasonBadResult,
		},
		{
			name: "unexported parameter type",
			decl: func() models.Declaration {
				return class("Foo", models.PointerTo(named("secret")))
			},
			reason: ReasonBadParameter,
		},
		{
			name: "literal parameter with package references",
			decl: func() models.Declaration {
				return class("Foo", models.Literal("func(context.Context)", "context"))
			},
			reason: ReasonBadParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]models.Declaration{tt.decl()})
			assert.Empty(t, result.Ready)
			assert.Empty(t, result.Deferred)
			require.Len(t, result.Diagnostics, 1)
			assert.Equal(t, errors.ConfigurationErrorCode, result.Diagnostics[0].ErrorCode())
			assert.Equal(t, tt.reason, configReason(t, result.Diagnostics[0]))
		})
	}
}

func TestValidate_ErrorsDoNotAffectSiblings(t *testing.T) {
	lonely := class("Lonely")
	lonely.Constructor = nil
	foo := class("Foo", models.PointerTo(named("Bar")))

	result := Validate([]models.Declaration{lonely, foo})

	assert.Equal(t, []*models.ClassDecl{foo}, result.Ready)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Error(), "no constructor found")
	assert.Equal(t, "music.go:10", result.Diagnostics[0].Location().String())
}

func TestValidate_InvalidMarker(t *testing.T) {
	parser := annotations.NewParser()
	marker, err := parser.Parse("//inject::single -Lazy", errors.SourceLocation{File: "music.go", Line: 9})
	require.Error(t, err)

	decl := class("Foo")
	decl.Marks = []annotations.Marker{marker}

	result := Validate([]models.Declaration{decl})
	assert.Empty(t, result.Ready)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.SyntaxErrorCode, result.Diagnostics[0].ErrorCode())
}

func TestValidate_NonInjectorMarkerError(t *testing.T) {
	decl := class("Foo")
	decl.Marks = []annotations.Marker{{Raw: "//inject::?", Err: assert.AnError}}

	result := Validate([]models.Declaration{decl})
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.SyntaxErrorCode, result.Diagnostics[0].ErrorCode())
	assert.True(t, stderrors.Is(result.Diagnostics[0], assert.AnError))
}

// classIn builds a ready class declared in another package
func classIn(path, name, typeName string, params ...models.TypeRef) *models.ClassDecl {
	d := class(typeName, params...)
	d.PkgPath = path
	d.PkgName = name
	d.Constructor.Results = []models.TypeRef{models.PointerTo(models.Named(path, name, typeName))}
	return d
}

func TestValidator_OutputPackageImports(t *testing.T) {
	const output = "example.com/app/injectgen"

	tests := []struct {
		name   string
		decl   *models.ClassDecl
		reason string
	}{
		{
			name:   "package main",
			decl:   classIn("example.com/app/cmd/server", "main", "Server"),
			reason: ReasonMainPackage,
		},
		{
			name:   "declared in the output package",
			decl:   classIn(output, "injectgen", "Cache"),
			reason: ReasonOutputPackage,
		},
		{
			name:   "internal package outside the output tree",
			decl:   classIn("example.com/app/services/internal/store", "store", "Store"),
			reason: ReasonInternal,
		},
		{
			name: "parameter from a hidden internal package",
			decl: class("Foo", models.PointerTo(
				models.Named("example.com/app/services/internal/store", "store", "Store"))),
			reason: ReasonInternal,
		},
		{
			name:   "parameter from the output package",
			decl:   class("Foo", models.PointerTo(models.Named(output, "injectgen", "Cache"))),
			reason: ReasonOutputPackage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sibling := class("Baz")
			result := New(output).Validate([]models.Declaration{tt.decl, sibling})

			assert.Equal(t, []*models.ClassDecl{sibling}, result.Ready)
			assert.Empty(t, result.Deferred)
			require.Len(t, result.Diagnostics, 1)
			assert.Equal(t, tt.reason, configReason(t, result.Diagnostics[0]))
		})
	}
}

func TestValidator_VisibleInternalPackages(t *testing.T) {
	decl := classIn("example.com/app/internal/music", "music", "Player",
		models.PointerTo(models.Named("example.com/app/internal/audio", "audio", "Mixer")))

	result := New("example.com/app/internal/injectgen").Validate([]models.Declaration{decl})
	assert.Equal(t, []*models.ClassDecl{decl}, result.Ready)
	assert.Empty(t, result.Diagnostics)

	result = New("example.com/app/injectgen").Validate([]models.Declaration{decl})
	assert.Equal(t, []*models.ClassDecl{decl}, result.Ready)
}

func TestValidate_MainPackageWithoutOutputPath(t *testing.T) {
	result := Validate([]models.Declaration{classIn("example.com/app/cmd/server", "main", "Server")})
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, ReasonMainPackage, configReason(t, result.Diagnostics[0]))
}

func TestVisibleFrom(t *testing.T) {
	tests := []struct {
		importer, path string
		parent         string
		ok             bool
	}{
		{"example.com/app/gen", "example.com/app/music", "", true},
		{"example.com/app/gen", "example.com/app/internal/music", "", true},
		{"example.com/app", "example.com/app/internal/music", "", true},
		{"example.com/other/gen", "example.com/app/internal/music", "example.com/app", false},
		{"example.com/app/gen", "example.com/app/a/internal/b", "example.com/app/a", false},
		{"example.com/app/a/gen", "example.com/app/a/internal/b/internal/c", "example.com/app/a/internal/b", false},
		{"example.com/app/gen", "internal/race", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			parent, ok := visibleFrom(tt.importer, tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.parent, parent)
		})
	}
}
