// Package fade generates the gradient overlays that blend a background photo
// into the canvas colour.
//
// Shapes are plain scene elements tagged fade_effect with a [scene.Gradient]
// fill. They never take part in tag flow or collision checks. [Apply] is
// idempotent: it drops every existing fade shape before generating new ones
// directly above the background element.
//
// Supported modes:
//
//   - custom: one linear fade per side with a non-zero size
//   - bottom-left, bottom-right, top-left, top-right: a radial corner fade
//     plus linear fades on the two adjoining sides
//   - vignette: a radial fade over the whole background plus top and bottom
//     linear fades
//
// Gradient stops never reach zero alpha; [AlphaFloor] is used instead.
package fade
