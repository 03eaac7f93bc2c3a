// Package popup models the Pokémon detail popup.
//
// A [Popup] is either Hidden or Shown. [Popup.Show] selects a Pokémon and
// anchors the popup at the clicked icon from any state; [Popup.Close] hides
// it and clears any computed position. Nothing else changes the state.
//
// [Place] is the viewport-aware placement rule: the popup opens below and to
// the right of the icon's top-left corner, and flips above or to the left
// when it would overflow the viewport. [Script] carries the same rule for
// rendered SVG and HTML documents.
package popup
