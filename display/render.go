// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import "errors"

// Rendering errors.
var (
	// ErrInvalidDrawContext is returned when the host texture does not
	// implement gpucontext.Texture.
	ErrInvalidDrawContext = errors.New("display: host texture must implement gpucontext.Texture")

	// ErrInvalidRenderer is returned when the drawer has no
	// gpucontext.TextureCreator.
	ErrInvalidRenderer = errors.New("display: renderer must implement gpucontext.TextureCreator")
)
