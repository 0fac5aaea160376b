// Package dom binds the forms of an HTML page to the document model. It
// parses markup with golang.org/x/net/html, maps every `.needs-validation`
// form onto a model.Form, prepares it the way the page script did (form id,
// hidden honeypot input) and writes validation state, submit control state
// and the notification container back into the markup.
package dom
