// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	requestutil "github.com/taibuivan/references/internal/platform/request"
)

/*
TestList verifies the three list conventions are merged in request order.
*/
func TestList(t *testing.T) {
	values, err := url.ParseQuery("metadata=dcterms:subject,dcterms:type&metadata[]=o:title&metadata=")
	assert.NoError(t, err)

	assert.Equal(t, []string{"dcterms:subject", "dcterms:type", "o:title"}, requestutil.List(values, "metadata"))
	assert.Nil(t, requestutil.List(values, "missing"))
}

/*
TestRawList verifies free text values keep their commas and spaces.
*/
func TestRawList(t *testing.T) {
	values := url.Values{"values[]": {"Paris, France", " Lyon ", ""}, "values": {"Lyon"}}

	assert.Equal(t, []string{"Lyon", "Paris, France", " Lyon "}, requestutil.RawList(values, "values"))
	assert.Nil(t, requestutil.RawList(values, "missing"))
}

/*
TestBoolAndInt checks flag and integer parsing with defaults.
*/
func TestBoolAndInt(t *testing.T) {
	values, _ := url.ParseQuery("first=&initial=0&distinct=true&per_page=abc&page=3")

	assert.True(t, requestutil.Bool(values, "first"))
	assert.False(t, requestutil.Bool(values, "initial"))
	assert.True(t, requestutil.Bool(values, "distinct"))
	assert.False(t, requestutil.Bool(values, "lang"))

	assert.Equal(t, 0, requestutil.Int(values, "per_page", 0))
	assert.Equal(t, 3, requestutil.Int(values, "page", 1))
	assert.Equal(t, 1, requestutil.Int(values, "missing", 1))
}
