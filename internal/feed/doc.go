// Package feed implements the content side of the service: themes, the
// articles filed under them, comments on articles and per-user theme
// subscriptions.
//
// All routes require an authenticated principal. Articles and comments can
// only be modified by their author; themes are shared and can be edited by
// any authenticated user.
package feed
