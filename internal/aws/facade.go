package aws

import (
	"github.com/aws/smithy-go/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"cloudfacade/internal/config"
	"cloudfacade/internal/models"
)

// Facade exposes create/list/describe/delete/attach/detach operations per
// resource kind. It keeps no state between calls.
type Facade struct {
	clients  ClientFactory
	settings *config.Settings
	status   StatusFunc
	log      zerolog.Logger
}

// FacadeOption customizes a Facade
type FacadeOption func(*Facade)

// WithStatusFunc replaces the transport status extractor
func WithStatusFunc(fn StatusFunc) FacadeOption {
	return func(f *Facade) { f.status = fn }
}

// WithLogger sets the logger used for operation records
func WithLogger(logger zerolog.Logger) FacadeOption {
	return func(f *Facade) { f.log = logger }
}

// New builds a facade over clients. A nil settings uses config.Default().
func New(clients ClientFactory, settings *config.Settings, opts ...FacadeOption) *Facade {
	if settings == nil {
		settings = config.Default()
	}

	f := &Facade{
		clients:  clients,
		settings: settings,
		status:   RawResponseStatus,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Settings returns the settings the facade was built with
func (f *Facade) Settings() *config.Settings {
	return f.settings
}

// ListResult is the normalized output of a list operation. Operations that
// do not paginate return the first page only and report Truncated; pass
// NextToken back through WithPageToken to fetch the following page.
type ListResult[T models.Descriptor] struct {
	Names     []string
	Records   []T
	Truncated bool
	NextToken string
}

func newListResult[T models.Descriptor](records []T) ListResult[T] {
	res := ListResult[T]{
		Names:   make([]string, 0, len(records)),
		Records: make([]T, 0, len(records)),
	}
	for _, r := range records {
		res.Names = append(res.Names, r.GetName())
		res.Records = append(res.Records, r)
	}
	return res
}

type callOptions struct {
	region    string
	pageToken string
	maxItems  int32
	prefix    string
}

// CallOption customizes a single operation
type CallOption func(*callOptions)

// InRegion targets region. Only the settings' default region is served.
func InRegion(region string) CallOption {
	return func(o *callOptions) { o.region = region }
}

// WithPageToken resumes a truncated listing
func WithPageToken(token string) CallOption {
	return func(o *callOptions) { o.pageToken = token }
}

// WithMaxItems caps the page size of a listing
func WithMaxItems(n int32) CallOption {
	return func(o *callOptions) { o.maxItems = n }
}

// WithPrefix restricts a listing to names starting with prefix. Only the
// listings whose provider API filters by prefix (buckets, objects) honour it.
func WithPrefix(prefix string) CallOption {
	return func(o *callOptions) { o.prefix = prefix }
}

// resolve applies opts and rejects unsupported regions before any client is opened
func (f *Facade) resolve(op string, kind models.ResourceKind, name string, opts []CallOption) (callOptions, error) {
	o := callOptions{region: f.settings.DefaultRegion}
	for _, opt := range opts {
		opt(&o)
	}
	if o.region == "" {
		o.region = f.settings.DefaultRegion
	}

	if o.region != f.settings.DefaultRegion {
		return o, f.fail(&OpError{
			Kind:      RegionNotSupported,
			Resource:  kind,
			Name:      name,
			Operation: op,
			Region:    o.region,
		})
	}
	return o, nil
}

// check routes the transport status of a successful call through the classifier
func (f *Facade) check(op string, kind models.ResourceKind, name string, md middleware.Metadata) error {
	ok, code, err := ClassifyStatus(f.status(md))
	if err != nil {
		return f.fail(&OpError{Kind: APICallFailed, Resource: kind, Name: name, Operation: op, Cause: err})
	}
	if !ok {
		return f.fail(&OpError{Kind: APICallFailed, Resource: kind, Name: name, Operation: op, Code: code})
	}
	return nil
}

// fault normalizes a provider error and logs it
func (f *Facade) fault(err error, op string, kind models.ResourceKind, name string) error {
	return f.fail(normalize(err, op, kind, name))
}

func (f *Facade) notImplemented(op string, kind models.ResourceKind, name, what string) error {
	return f.fail(&OpError{
		Kind:      NotImplemented,
		Resource:  kind,
		Name:      name,
		Operation: op,
		Cause:     errors.Errorf("%s is not implemented", what),
	})
}

func (f *Facade) fail(e *OpError) error {
	event := f.log.Error()
	if e.Kind == AlreadyExists || e.Kind == DoesNotExist {
		event = f.log.Warn()
	}
	event.
		Str("op", e.Operation).
		Str("kind", e.Resource.String()).
		Str("name", e.Name).
		Str("error_kind", e.Kind.String()).
		Int("code", e.Code).
		Str("region", e.Region).
		AnErr("cause", e.Cause).
		Msg(e.Kind.Message())
	return e
}
