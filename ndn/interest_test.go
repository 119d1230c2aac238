/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn_test

import (
	"testing"

	"github.com/named-data/ndncs/ndn"
	"github.com/stretchr/testify/assert"
)

func TestInterestNew(t *testing.T) {
	hash := ndn.ContentHash([]byte("content"))
	i := ndn.NewInterest(hash)
	assert.Equal(t, hash, i.Hash())
	assert.False(t, i.MustBeFresh())

	i.SetMustBeFresh(true)
	assert.True(t, i.MustBeFresh())
	assert.Contains(t, i.String(), "MustBeFresh=true")
}
