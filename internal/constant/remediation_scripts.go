package constant

// CreateContactsTableScript creates the contacts table from scratch.
const CreateContactsTableScript = `-- 1. Creates the table to store CRM contacts
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS public.contacts (
  id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
  created_at timestamptz DEFAULT now(),
  name text NOT NULL,
  summary text NOT NULL,
  key_points text[],
  priority integer,
  action_tag text,
  notes text,
  contact_info jsonb
);

CREATE TABLE IF NOT EXISTS public.contact_history (
  id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
  contact_id uuid NOT NULL,
  created_at timestamptz DEFAULT now(),
  changed_by text,
  reason text,
  changed_fields jsonb
);

-- 2. Adds comments for database documentation
COMMENT ON TABLE public.contacts IS 'Table to store contacts for the personal CRM.';
`

// MigratePriorityScript replaces the legacy is_priority/status/display_order
// columns with the integer priority column.
const MigratePriorityScript = `-- 1. Drop old columns if they exist.
ALTER TABLE public.contacts DROP COLUMN IF EXISTS is_priority;
ALTER TABLE public.contacts DROP COLUMN IF EXISTS display_order;
ALTER TABLE public.contacts DROP COLUMN IF EXISTS status;

-- 2. Add the new priority column if it doesn't exist.
ALTER TABLE public.contacts ADD COLUMN IF NOT EXISTS priority INTEGER;

-- 3. Add a comment for documentation.
COMMENT ON COLUMN public.contacts.priority IS 'Priority level (e.g., 1 for P1, 2 for P2), used for sorting.';
`

const AddActionTagScript = `-- Adds the free-text action tag shown next to each contact.
ALTER TABLE public.contacts ADD COLUMN IF NOT EXISTS action_tag TEXT;

COMMENT ON COLUMN public.contacts.action_tag IS 'Short follow-up tag, e.g. "call back".';
`

// RemediationScripts is keyed by the schema issue name reported in errors.
var RemediationScripts = map[string]string{
	"table_missing":             CreateContactsTableScript,
	"priority_columns_missing":  MigratePriorityScript,
	"action_tag_column_missing": AddActionTagScript,
}
