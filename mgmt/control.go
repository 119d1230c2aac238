/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

// CsFlag indicates a ContentStore status flag.
type CsFlag uint64

const (
	CsFlagEnableAdmit CsFlag = 1 << iota
	CsFlagEnableServe
)

// ControlParameters represents the parameters of a management command or its response.
type ControlParameters struct {
	Prefix   []byte
	Capacity *uint64
	Count    *uint64
	Flags    *uint64
	Mask     *uint64
	NErased  *uint64
}

// ControlResponse is the response to a management command.
type ControlResponse struct {
	StatusCode uint64
	StatusText string
	Params     *ControlParameters
	Info       *CsInfo
	Entries    []string
}

// CsInfo contains status information about the Content Store.
type CsInfo struct {
	Capacity   uint64
	Flags      CsFlag
	NCsEntries uint64
	NHits      uint64
	NMisses    uint64
}

func makeControlResponse(statusCode uint64, statusText string, params *ControlParameters) *ControlResponse {
	return &ControlResponse{
		StatusCode: statusCode,
		StatusText: statusText,
		Params:     params,
	}
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}
