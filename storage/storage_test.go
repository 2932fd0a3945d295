/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpl(t *testing.T) {
	// Just confirm that this code compiles.
	var _ Storage = &Memory{}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Open(ctx))
	defer s.Close(ctx)

	src := []byte("name: pages\ncases:\n  - value: home\n    text: Home\n")
	require.NoError(t, s.PutTable(ctx, "pages", src))
	require.NoError(t, s.PutTable(ctx, "about", []byte("cases: []")))

	// The stored source is a copy.
	src[0] = 'N'

	got, err := s.GetTable(ctx, "pages")
	require.NoError(t, err)
	assert.Equal(t, "name: pages", string(got[:11]))

	names, err := s.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "pages"}, names)

	require.NoError(t, s.RemTable(ctx, "about"))
	assert.True(t, errors.Is(s.RemTable(ctx, "about"), NotFound))

	_, err = s.GetTable(ctx, "about")
	assert.True(t, errors.Is(err, NotFound))
}

func TestLoadTable(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.PutTable(ctx, "anon", []byte("cases:\n  - value: home\n    text: Home\n")))
	require.NoError(t, s.PutTable(ctx, "broken", []byte("cases: {")))

	tab, err := LoadTable(ctx, s, "anon")
	require.NoError(t, err)
	assert.Equal(t, "anon", tab.Name)
	require.NoError(t, tab.Compile(ctx, nil))

	out, ok, err := tab.RenderString(ctx, "home", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Home", out)

	_, err = LoadTable(ctx, s, "broken")
	assert.Error(t, err)

	_, err = LoadTable(ctx, s, "missing")
	assert.True(t, errors.Is(err, NotFound))
}
