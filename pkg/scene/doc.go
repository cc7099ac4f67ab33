// Package scene defines the serializable composition model shared by the
// layout engine, the fade generator and the surrounding pipeline.
//
// # Overview
//
// A [Scene] is a fixed-size [Canvas] holding an ordered list of [Element]
// values (back to front), the usable interior expressed as [Margins], an
// [Alignment] mode, a [FadeConfig] and a list of blocked areas.
//
// Every element carries a [Tag] from a closed vocabulary. The tag decides how
// the element takes part in layout via [Tag.Role]:
//
//   - [RoleAnchor]: the single "title" element (logo or text label)
//   - [RoleFlow]: metadata tags placed in rows under the anchor
//   - [RoleBackground]: the backdrop photo
//   - [RoleDecoration]: generated fades and editor guides
//
// Elements are addressed by stable IDs rather than by position, so callers
// can refer to the same element across layout passes.
//
// # Coordinates
//
// Width and Height are intrinsic; the drawn size is Width*ScaleX by
// Height*ScaleY. Left and Top are interpreted through OriginX and OriginY:
// with origin "center" they mark the centre of the box. Use
// [Element.Bounds] to get the top-left bounding rectangle regardless of
// origin.
//
// Blocked areas are stored in canonical 1080p space and multiplied by
// [ResolutionFactor] before use.
//
// # Serialization
//
// [ReadFile], [WriteFile], [Marshal] and [Unmarshal] use JSON. Unknown tags,
// alignments and fade modes fail to decode. Elements without an ID are
// assigned a UUID on load.
package scene
