package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	require.Equal(t, "transport", KindTransport.String())
	require.Equal(t, "server_api", KindServerAPI.String())
	require.Equal(t, "unknown", ErrorKind(99).String())
}

func TestErrorUnwrapAndKind(t *testing.T) {
	cause := errors.New("dial failed")
	err := transportErr("Info", cause)
	require.Equal(t, KindTransport, err.Kind())
	require.ErrorIs(t, err, cause)
}

func TestAsExtractsClientError(t *testing.T) {
	err := clientLogicErr("InsertDocuments", "nothing to insert")
	wrapped := error(err)
	got, ok := As(wrapped)
	require.True(t, ok)
	require.Equal(t, KindClientLogic, got.Kind())
}

func TestAsFailsForForeignError(t *testing.T) {
	_, ok := As(errors.New("not a client error"))
	require.False(t, ok)
}

func TestClassifyServerErrorDiscriminants(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   ServerAPIDiscriminant
	}{
		{404, "Document not found", ServerAPIDocumentNotFound},
		{404, "Unknown database foo", ServerAPIDatabaseDoesNotExist},
		{400, "Subdocument inserted as document", ServerAPIInsertedSubdocumentAsDocument},
		{400, "SchemaCheckFailure: bad shape", ServerAPISchemaCheckFailure},
		{409, "Database already exists", ServerAPIDatabaseExists},
		{500, "boom", ServerAPIUnknown},
	}
	for _, c := range cases {
		got := classifyServerError(c.status, []byte(c.body))
		require.Equal(t, c.want, got, "status=%d body=%q", c.status, c.body)
	}
}

func TestErrNothingToInsertIsClientLogic(t *testing.T) {
	require.Equal(t, KindClientLogic, ErrNothingToInsert.Kind())
}
