// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in       string
		wantType IdentifierType
		wantID   string
	}{
		{"2301.07041", TypeArxiv, "2301.07041"},
		{"arXiv:2301.07041v2", TypeArxiv, "2301.07041"},
		{" 1706.03762 ", TypeArxiv, "1706.03762"},
		{"10.1145/1234567.1234568", TypeDOI, "10.1145/1234567.1234568"},
		{"https://doi.org/10.1038/nature14539", TypeDOI, "10.1038/nature14539"},
		{"doi:10.1038/nature14539", TypeDOI, "10.1038/nature14539"},
		{"not-an-id", TypeUnknown, "not-an-id"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			gotType, gotID := Classify(tt.in)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantID, gotID)
		})
	}
}

const crossrefBody = `{"status":"ok","message":{
 "title":["Deep   learning"],
 "URL":"https://doi.org/10.1038/nature14539",
 "author":[{"given":"Yann","family":"LeCun"},{"given":"Yoshua","family":"Bengio"},{"name":"Consortium"}],
 "issued":{"date-parts":[[2015,5]]},
 "created":{"date-parts":[[2015,5,27]]}
}}`

func TestResolveDOI(t *testing.T) {
	req := serve(t, &crossrefAPIBase, http.StatusOK, crossrefBody)

	r := &Resolver{Client: http.DefaultClient}
	res, err := r.Resolve(context.Background(), "https://doi.org/10.1038/nature14539", testCfg())
	require.NoError(t, err)

	assert.Equal(t, "/10.1038/nature14539", (*req).URL.Path)
	assert.Equal(t, "Deep learning", res.Title)
	assert.Equal(t, []string{"Yann LeCun", "Yoshua Bengio", "Consortium"}, res.Authors)
	assert.Equal(t, "10.1038/nature14539", res.DOI)
	assert.Equal(t, time.Date(2015, 5, 1, 0, 0, 0, 0, time.UTC), res.Date)
}

func TestResolveDOINotFound(t *testing.T) {
	serve(t, &crossrefAPIBase, http.StatusNotFound, `Resource not found.`)

	r := &Resolver{Client: http.DefaultClient}
	_, err := r.Resolve(context.Background(), "10.1/missing", testCfg())
	assert.ErrorContains(t, err, "HTTP 404")
}

const arxivSingleBody = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
      You Need</title>
    <summary>The dominant sequence transduction models...</summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

func TestResolveArxiv(t *testing.T) {
	req := serve(t, &arxivAPIBase, http.StatusOK, arxivSingleBody)

	r := &Resolver{Client: http.DefaultClient}
	res, err := r.Resolve(context.Background(), "arXiv:1706.03762v7", testCfg())
	require.NoError(t, err)

	assert.Equal(t, "1706.03762", (*req).URL.Query().Get("id_list"))
	assert.Equal(t, "Attention Is All You Need", res.Title)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, res.Authors)
	assert.Equal(t, "https://arxiv.org/abs/1706.03762", res.URL)
	assert.Equal(t, 2017, res.Date.Year())
}

func TestResolveArxivEmptyFeed(t *testing.T) {
	serve(t, &arxivAPIBase, http.StatusOK, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)

	r := &Resolver{Client: http.DefaultClient}
	_, err := r.Resolve(context.Background(), "2301.07041", testCfg())
	assert.ErrorContains(t, err, "no entries")
}

func TestResolveAllStopsOnUnknown(t *testing.T) {
	r := &Resolver{Client: http.DefaultClient}
	_, err := r.ResolveAll(context.Background(), []string{"bogus"}, testCfg())
	assert.ErrorContains(t, err, "unrecognized identifier")
}
