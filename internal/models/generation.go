package models

// GeneratedModule is one round's generated DI module
type GeneratedModule struct {
	Index       int                 // module index the artifact was named after
	FileName    string              // artifact name, prefix + index + ".go"
	TypeName    string              // name of the generated module type
	PackageName string              // package clause of the generated file
	Bindings    []BindingDescriptor // in scan order
	Lines       []string            // one rendered registration per binding
	Content     []byte              // formatted Go source
}
