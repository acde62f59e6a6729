// Package carousel is an endless, horizontally scrolling image carousel for
// [Ebitengine] whose slides bend toward the viewer in proportion to scroll
// speed.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	c, err := carousel.New(ctx, carousel.DefaultConfig(), os.DirFS("images"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	carousel.Run(c, carousel.RunConfig{Title: "Carousel", Width: 1280, Height: 720})
//
// [Carousel] implements [ebiten.Game], so it can also be run with
// ebiten.RunGame directly or embedded in a larger game.
//
// # Animation
//
// All motion lives in [Animator]. Input handlers ([Animator.Wheel],
// [Animator.Key], [Animator.TouchStart], [Animator.TouchMove],
// [Animator.TouchEnd]) only move targets and momentum; [Animator.Tick]
// advances one frame:
//
//   - momentum is added to the target position and decays;
//   - the position eases toward the target;
//   - the frame velocity feeds a distortion factor that eases toward its own
//     target and relaxes when scrolling slows;
//   - each slide is wrapped onto the loop around the viewer and its
//     [Plane] is bent by the distortion factor.
//
// Tick takes an explicit dt and reads no clock, so an Animator can be
// stepped deterministically outside a running game.
//
// # Images
//
// Slide images are decoded in the background by a [TextureLoader] (PNG,
// JPEG and WebP). Until an image arrives a slide shows a placeholder; once
// it does, the plane is rescaled to the image's aspect ratio and the image
// fades in. Failed loads are logged and keep the placeholder.
//
// [Ebitengine]: https://ebitengine.org
package carousel
