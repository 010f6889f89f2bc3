// Package model defines the core data structures used throughout
// the nftposter application.
//
// # Events
//
// Event carries the metadata a poster is generated from:
//
//	ev := model.Event{Artist: "The Band", Date: "12/05/2025", Location: "Texas"}
//	fmt.Println(ev.Title())                  // "The Band"
//	fmt.Println(ev.ImageFilePath("nft_images")) // "nft_images/The Band_12-05-2025.jpg"
//
// # Text Layout Types
//
// The overlay pipeline passes typed records between its stages:
//
//   - Role: closed set {title, date, location}
//   - FontSpec / FontSet: font family and pixel size per role
//   - TextBlock: measured text with its bounding box
//   - Placement: top-left anchor per role
//   - OverlayRequest: input of one overlay call
//
// An unknown role is always reported with ErrInvalidRole.
package model
