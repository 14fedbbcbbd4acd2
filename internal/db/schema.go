package db

// SchemaSQL contains the database schema initialization SQL.
// The single %d verb is the HNSW dimension, which must match the embedder.
const SchemaSQL = `
    -- ==========================================================================
    -- FOLDER TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS folder SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON folder TYPE string;
    DEFINE FIELD IF NOT EXISTS created ON folder TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS folder_name ON folder FIELDS name UNIQUE;

    -- ==========================================================================
    -- DOCUMENT TABLE (one row per per-file extraction attempt)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS document SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS folder ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS filename ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS status ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS error ON document TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS pages ON document TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS created ON document TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS document_folder ON document FIELDS folder;
    DEFINE INDEX IF NOT EXISTS document_key ON document FIELDS folder, filename UNIQUE;

    -- ==========================================================================
    -- CHUNK TABLE (indexed text with vector + full-text search)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS chunk SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS folder ON chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS filename ON chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS page ON chunk TYPE int;
    DEFINE FIELD IF NOT EXISTS position ON chunk TYPE int;
    DEFINE FIELD IF NOT EXISTS content ON chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON chunk TYPE option<array<float>>;
    DEFINE FIELD IF NOT EXISTS created ON chunk TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS chunk_folder ON chunk FIELDS folder;
    DEFINE INDEX IF NOT EXISTS chunk_embedding ON chunk FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
    DEFINE ANALYZER IF NOT EXISTS chunk_analyzer TOKENIZERS class FILTERS lowercase, ascii, snowball(english);
    DEFINE INDEX IF NOT EXISTS chunk_content_ft ON chunk FIELDS content FULLTEXT ANALYZER chunk_analyzer BM25;
`
