package schema

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/sr"
)

var _ SchemaIdentifier = (*RegistryIdentifier)(nil)

// RegistryIdentifier registers subjects in the schema registry and
// returns their ids. Registering an already known schema is a no-op
// on the registry side and yields the existing id.
type RegistryIdentifier struct {
	cl *sr.Client
}

func NewRegistryIdentifier(cl *sr.Client) RegistryIdentifier {
	return RegistryIdentifier{cl}
}

func (r RegistryIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (int, error) {
	const op = "RegistryIdentifier.DetermineID"

	ss, err := r.cl.CreateSchema(ctx, subject, sr.Schema{
		Schema: avroSchemaText,
		Type:   sr.TypeAvro,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}
