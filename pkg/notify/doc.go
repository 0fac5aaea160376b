// Package notify presents transient, auto-dismissing messages in a fixed
// on-screen region. The region is created lazily on the first message; each
// message owns its own timers (visible lifetime, then a short fade before it
// is detached) and nothing else is shared between messages.
package notify
