package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	// Page titles
	message.SetString(lang, "title.home", "Stories")
	message.SetString(lang, "title.login", "Sign in")
	message.SetString(lang, "title.change_username", "Display name")
	message.SetString(lang, "title.create_story", "New story")
	message.SetString(lang, "title.add_unit", "New %s")
	message.SetString(lang, "title.edit_unit", "Edit %s")

	// Layout
	message.SetString(lang, "layout.signed_in_as", "Signed in as")
	message.SetString(lang, "layout.logout", "Sign out")
	message.SetString(lang, "layout.login", "Sign in")

	// Login page
	message.SetString(lang, "login.heading", "Sign in to TaleVortex")
	message.SetString(lang, "login.intro", "Enter your email and we will send you a one-time sign-in link.")
	message.SetString(lang, "login.sent", "A sign-in link is on its way to %s.")
	message.SetString(lang, "login.email", "Email")
	message.SetString(lang, "login.submit", "Send sign-in link")

	// Display name page
	message.SetString(lang, "username.heading", "Change display name")
	message.SetString(lang, "username.current", "You currently appear as %s.")
	message.SetString(lang, "username.label", "New display name")
	message.SetString(lang, "username.submit", "Save")

	// Index
	message.SetString(lang, "index.stories", "Your stories")
	message.SetString(lang, "index.no_stories", "You have no stories yet.")
	message.SetString(lang, "index.create_story", "Create a story")
	message.SetString(lang, "index.import_story", "Import a story file")
	message.SetString(lang, "index.import_submit", "Import")

	// Story
	message.SetString(lang, "story.create_heading", "Create a story")
	message.SetString(lang, "story.create_submit", "Create")
	message.SetString(lang, "story.name", "Name")
	message.SetString(lang, "story.setting", "Setting and style")
	message.SetString(lang, "story.challenge", "Main challenge")
	message.SetString(lang, "story.undefined_names", "Referenced but not yet defined:")
	message.SetString(lang, "story.add_unit", "Add a unit")
	message.SetString(lang, "story.delete_unit", "delete")
	message.SetString(lang, "story.view", "View story")
	message.SetString(lang, "story.download_pdf", "Download PDF")
	message.SetString(lang, "story.download_json", "Download JSON")
	message.SetString(lang, "story.download_text", "Download narrated text")
	message.SetString(lang, "story.delete", "Delete story")
	message.SetString(lang, "story.back", "Back to stories")

	// Unit form
	message.SetString(lang, "unit.add_heading", "New %s")
	message.SetString(lang, "unit.edit_heading", "%s: %s")
	message.SetString(lang, "unit.name", "Name")
	message.SetString(lang, "unit.fill_legend", "Let the assistant fill the form")
	message.SetString(lang, "unit.description", "Describe the unit")
	message.SetString(lang, "unit.fill_submit", "Fill features")
	message.SetString(lang, "unit.save_submit", "Save unit")
	message.SetString(lang, "unit.cancel", "Cancel")
	message.SetString(lang, "unit.fill_failed", "The assistant could not fill the form. Your values were kept.")
	message.SetString(lang, "unit.fill_applied", "Suggested values were filled in. Review them and save.")

	// Unit browser
	message.SetString(lang, "browser.heading", "Unit browser")
	message.SetString(lang, "browser.search", "Search")
	message.SetString(lang, "browser.include", "With labels")
	message.SetString(lang, "browser.exclude", "Without labels")
	message.SetString(lang, "browser.filter", "Filter")
	message.SetString(lang, "browser.empty", "No units match these filters.")
	message.SetString(lang, "browser.name", "Name")
	message.SetString(lang, "browser.type", "Type")
	message.SetString(lang, "browser.labels", "Labels")
	message.SetString(lang, "browser.add", "Add to story")
	message.SetString(lang, "browser.use_as_template", "Use as template")
	message.SetString(lang, "browser.label_name", "Label selected units")
	message.SetString(lang, "browser.assign", "Assign label")

	// Flash notices
	message.SetString(lang, "notice.logged_in", "Welcome, %s.")
	message.SetString(lang, "notice.logged_out", "You have been signed out.")
	message.SetString(lang, "notice.login_required", "Sign in to continue.")
	message.SetString(lang, "notice.username_changed", "You now appear as %s.")
	message.SetString(lang, "notice.story_created", `Story "%s" created.`)
	message.SetString(lang, "notice.story_imported", `Story "%s" imported.`)
	message.SetString(lang, "notice.story_deleted", `Story "%s" deleted.`)
	message.SetString(lang, "notice.unit_saved", `Unit "%s" saved.`)
	message.SetString(lang, "notice.unit_deleted", `Unit "%s" deleted.`)
	message.SetString(lang, "notice.unit_copied", `Unit "%s" added to the current story.`)
	message.SetString(lang, "notice.template_loaded", `The form was prefilled from "%s".`)
	message.SetString(lang, "notice.label_assigned", `Label "%s" assigned to %s units.`)

	// Web errors
	message.SetString(lang, "error.no_current_story", "Select a story first.")
	message.SetString(lang, "error.import_file_missing", "Choose a story file to import.")
	message.SetString(lang, "error.invalid_form", "The form could not be read.")
	message.SetString(lang, "error.email_required", "Enter an email address.")

	// Domain errors
	message.SetString(lang, "error.unknown", "Something went wrong.")
	message.SetString(lang, "error.story_name_empty", "A story needs a name.")
	message.SetString(lang, "error.story_name_too_long", "That story name is too long.")
	message.SetString(lang, "error.story_name_taken", `You already have a story named "%s".`)
	message.SetString(lang, "error.story_not_owned", "That story does not exist.")
	message.SetString(lang, "error.unit_name_empty", "A unit needs a name.")
	message.SetString(lang, "error.unit_name_too_long", "That unit name is too long.")
	message.SetString(lang, "error.unit_name_taken", `A unit named "%s" already exists in this story.`)
	message.SetString(lang, "error.unit_type_unknown", "That unit type does not exist.")
	message.SetString(lang, "error.unit_field_invalid", "Some fields have invalid values.")
	message.SetString(lang, "error.unit_selection_empty", "Select at least one unit.")
	message.SetString(lang, "error.label_name_empty", "A label needs a name.")
	message.SetString(lang, "error.label_name_too_long", "That label name is too long.")
	message.SetString(lang, "error.user_email_invalid", "That email address is not valid.")
	message.SetString(lang, "error.user_display_name_empty", "Enter a display name.")
	message.SetString(lang, "error.user_display_name_too_long", "That display name is too long.")
	message.SetString(lang, "error.user_display_name_taken", `The display name "%s" is taken.`)
	message.SetString(lang, "error.user_not_authenticated", "Sign in to continue.")
	message.SetString(lang, "error.magic_link_invalid", "That sign-in link is not valid.")
	message.SetString(lang, "error.magic_link_expired", "That sign-in link has expired. Request a new one.")
	message.SetString(lang, "error.import_malformed", "That file is not a valid story export.")
	message.SetString(lang, "error.text_generation_failed", "The story text could not be generated. Try again later.")
	message.SetString(lang, "error.text_generation_disabled", "Text generation is not configured.")
	message.SetString(lang, "error.mail_delivery_failed", "The sign-in email could not be sent. Try again later.")
	message.SetString(lang, "error.not_found", "That item does not exist.")
	message.SetString(lang, "error.already_exists", "That item already exists.")

	// Error page
	message.SetString(lang, "error_page.title_not_found", "Not found")
	message.SetString(lang, "error_page.title_server_error", "Something went wrong")
	message.SetString(lang, "error_page.heading_not_found", "Page not found")
	message.SetString(lang, "error_page.heading_server_error", "Something went wrong")
	message.SetString(lang, "error_page.message_not_found", "The page you were looking for does not exist.")
	message.SetString(lang, "error_page.message_server_error", "We could not complete that request.")
	message.SetString(lang, "error_page.back_home", "Back to stories")
}
