package schema

import "codeberg.org/mutker/errschema/mapper"

// APIFactory builds API schemas: schemas that carry a location path, an
// input payload and a user-facing message. Every Factory method and
// sub-builder is available and produces API schemas.
type APIFactory struct {
	*Factory
}

// NewAPIFactory returns a factory for API schemas classified with the api
// mapper profile.
func NewAPIFactory(opts ...FactoryOption) *APIFactory {
	return &APIFactory{newFactory(KindAPI, mapper.ProfileAPI, apiBindings, opts)}
}

// API is the package-level factory for API schemas.
var API = NewAPIFactory()

// ValidationError builds a validation_error schema.
func (f *APIFactory) ValidationError(opts ...Option) (*ErrorSchema, error) {
	return f.New(TypeValidation, opts...)
}

// DockerError builds a docker_error schema.
func (f *APIFactory) DockerError(opts ...Option) (*ErrorSchema, error) {
	return f.New(TypeDocker, opts...)
}

// Validation returns the validation sub-builder.
func (f *APIFactory) Validation() *Domain {
	return NewDomain(f.Factory, "Validation", "")
}

// DockerBuilder builds docker_error schemas for container operations.
type DockerBuilder struct {
	*Domain
}

// Docker returns the container sub-builder.
func (f *APIFactory) Docker() *DockerBuilder {
	return &DockerBuilder{NewDomain(f.Factory, "Docker", "")}
}

func container(name string) string {
	if name == "" {
		return "a container"
	}
	return "container '" + name + "'"
}

// Waiting builds "Failed when waiting for container '<name>' to finish.".
// An empty name reads "a container".
func (b *DockerBuilder) Waiting(name string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Failed when waiting for "+container(name)+" to finish.", opts)
}

func (b *DockerBuilder) Running(name string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Failed when running "+container(name)+".", opts)
}

func (b *DockerBuilder) Starting(name string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Failed when starting "+container(name)+".", opts)
}

func (b *DockerBuilder) Stopping(name string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Failed when stopping "+container(name)+".", opts)
}

func (b *DockerBuilder) Removing(name string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Failed when removing "+container(name)+".", opts)
}
