// Package notify holds the store-independent core of notification delivery: choosing
// the localized template text, rendering it with a notification's ordered option values,
// and suppressing notifications a user opted out of per category and channel.
package notify
