package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/docshelf/internal/index"
	"github.com/raphaelgruber/docshelf/internal/llm"
	"github.com/raphaelgruber/docshelf/internal/models"
)

type fakeRetriever struct {
	hits    []index.Hit
	err     error
	folders []string
}

func (r *fakeRetriever) Search(_ context.Context, _ string, folders []string, _ int) ([]index.Hit, error) {
	r.folders = folders
	return r.hits, r.err
}

type fakeAnswerer struct {
	text    string
	err     error
	context string
}

func (a *fakeAnswerer) Answer(_ context.Context, _ string, contextText string) (string, error) {
	a.context = contextText
	return a.text, a.err
}

func newQueryService(store FolderStore, retriever Retriever, answerer Answerer) *QueryService {
	folders, _ := newFolderService(store)
	return NewQueryService(folders, retriever, answerer, nil, 3, testLogger())
}

func TestAskAnswersFromRetrievedContext(t *testing.T) {
	retriever := &fakeRetriever{hits: []index.Hit{
		{Folder: "legal", Filename: "contract.pdf", Page: 2, Content: "termination clause"},
		{Folder: "legal", Filename: "contract.pdf", Page: 4, Content: "notice period"},
	}}
	answerer := &fakeAnswerer{text: "30 days notice is required."}
	svc := newQueryService(newFakeStore("default", "legal"), retriever, answerer)

	ans, err := svc.Ask(context.Background(), "what is the notice period?", models.NamedScope("legal"))
	require.NoError(t, err)
	assert.Equal(t, "30 days notice is required.", ans.Text)
	assert.Equal(t, []string{"legal"}, ans.Folders)
	assert.Len(t, ans.Sources, 2)
	assert.Contains(t, answerer.context, "termination clause")
	assert.Contains(t, answerer.context, "notice period")
}

func TestAskGlobalScopeSearchesAllFolders(t *testing.T) {
	retriever := &fakeRetriever{hits: []index.Hit{{Content: "x"}}}
	svc := newQueryService(newFakeStore("default", "legal", "hr"), retriever, &fakeAnswerer{text: "ok"})

	_, err := svc.Ask(context.Background(), "anything?", models.GlobalScope())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"default", "legal", "hr"}, retriever.folders)
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := newQueryService(newFakeStore("default"), &fakeRetriever{}, &fakeAnswerer{})

	_, err := svc.Ask(context.Background(), "   ", models.GlobalScope())
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAskUnknownFolder(t *testing.T) {
	svc := newQueryService(newFakeStore("default"), &fakeRetriever{}, &fakeAnswerer{})

	_, err := svc.Ask(context.Background(), "question?", models.NamedScope("missing"))
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestAskEmptyRegistryGlobalScope(t *testing.T) {
	svc := newQueryService(newFakeStore(), &fakeRetriever{}, &fakeAnswerer{})

	ans, err := svc.Ask(context.Background(), "question?", models.GlobalScope())
	require.NoError(t, err)
	assert.Equal(t, answerNoResults, ans.Text)
}

func TestAskNoHits(t *testing.T) {
	svc := newQueryService(newFakeStore("default"), &fakeRetriever{}, &fakeAnswerer{text: "should not be called"})

	ans, err := svc.Ask(context.Background(), "question?", models.GlobalScope())
	require.NoError(t, err)
	assert.Equal(t, answerNoResults, ans.Text)
}

func TestAskTransportFaultsDegradeToFallbacks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unreachable", fmt.Errorf("generate: %w", llm.ErrUnreachable), answerUnreachable},
		{"timeout", fmt.Errorf("generate: %w", llm.ErrTimeout), answerTimeout},
		{"other fault", errors.New("boom"), answerStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever := &fakeRetriever{hits: []index.Hit{{Content: "chunk"}}}
			answerer := &fakeAnswerer{err: tt.err}
			svc := newQueryService(newFakeStore("default"), retriever, answerer)

			ans, err := svc.Ask(context.Background(), "question?", models.GlobalScope())
			require.NoError(t, err, "transport faults must not surface as errors")
			assert.Equal(t, tt.want, ans.Text)
		})
	}
}

func TestAskRetrievalFaultDegrades(t *testing.T) {
	retriever := &fakeRetriever{err: fmt.Errorf("search: %w", llm.ErrUnreachable)}
	svc := newQueryService(newFakeStore("default"), retriever, &fakeAnswerer{})

	ans, err := svc.Ask(context.Background(), "question?", models.GlobalScope())
	require.NoError(t, err)
	assert.Equal(t, answerUnreachable, ans.Text)
}
